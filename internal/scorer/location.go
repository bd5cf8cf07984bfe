package scorer

import (
	"fmt"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// scoreLocation blends walk/transit/bike scores, renormalizing the weights
// over whichever sub-scores are present.
func scoreLocation(_ *model.PropertyRecord, ext *model.ExternalSignals, cfg *config.ScoringConfig) CategoryScore {
	lc := cfg.Location
	parts := []struct {
		name   string
		value  model.Opt[float64]
		weight float64
	}{
		{"walk score", ext.WalkScore, lc.WalkWeight},
		{"transit score", ext.TransitScore, lc.TransitWeight},
		{"bike score", ext.BikeScore, lc.BikeWeight},
	}

	var sum, weightSum float64
	var rationale []string
	for _, part := range parts {
		v, ok := part.value.Get()
		if !ok || part.weight <= 0 {
			continue
		}
		v = clamp(v, 0, 100)
		sum += v * part.weight
		weightSum += part.weight
		rationale = append(rationale, fmt.Sprintf("%s %.0f", part.name, v))
	}

	if weightSum == 0 {
		return CategoryScore{
			Score:       lc.MissingDefault,
			Rationale:   []string{"insufficient location data"},
			UsedDefault: true,
		}
	}

	score := sum / weightSum
	if walk, ok := ext.WalkScore.Get(); ok {
		switch {
		case walk >= 70:
			rationale = append(rationale, "walkable neighborhood")
		case walk < 25:
			rationale = append(rationale, "car-dependent area")
		}
	}
	return CategoryScore{Score: score, Rationale: rationale}
}
