package scorer

import (
	"github.com/sells-group/taxdeed-cli/internal/config"
)

// Aggregate returns the weighted sum of the category scores rounded to
// 0.01. It reads only the score values and the weights.
func Aggregate(scores [NumCategories]CategoryScore, w config.WeightsConfig) float64 {
	var total float64
	for _, c := range Categories {
		total += scores[c].Score * c.Weight(w)
	}
	return Round(clamp(total, 0, 100), 2)
}

// modifierEpsilon absorbs float error at band thirds (80 is exactly 2/3 of B).
const modifierEpsilon = 1e-9

// GradeResult is a letter grade with its position modifier.
type GradeResult struct {
	Letter   string `json:"letter" yaml:"letter"`
	Modifier string `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Label    string `json:"label" yaml:"label"`
}

// AssignGrade maps a total score to a letter band and a modifier. Bands are
// closed at the bottom and open at the top, so a score on a boundary belongs
// to the higher band. The top and bottom ModifierFraction of each band earn
// "+" and "-"; F carries no modifier.
func AssignGrade(total float64, g config.GradeConfig) GradeResult {
	total = clamp(total, 0, 100)

	bands := []struct {
		letter      string
		floor, ceil float64
	}{
		{"A", g.A, 100},
		{"B", g.B, g.A},
		{"C", g.C, g.B},
		{"D", g.D, g.C},
	}
	for _, b := range bands {
		if total < b.floor {
			continue
		}
		gr := GradeResult{Letter: b.letter}
		if width := b.ceil - b.floor; width > 0 {
			pos := (total - b.floor) / width
			switch {
			case pos >= 1-g.ModifierFraction-modifierEpsilon:
				gr.Modifier = "+"
			case pos < g.ModifierFraction-modifierEpsilon:
				gr.Modifier = "-"
			}
		}
		gr.Label = gr.Letter + gr.Modifier
		return gr
	}
	return GradeResult{Letter: "F", Label: "F"}
}
