package scorer

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// Category is one of the five investment dimensions. The set is closed:
// arrays sized NumCategories and indexed by Category hold one entry per
// dimension, so a missing category is a compile-time length mismatch rather
// than a runtime lookup miss.
type Category int

// The five scoring categories, in reporting order.
const (
	Location Category = iota
	Risk
	Financial
	Market
	Profit

	NumCategories = 5
)

// Categories lists every category in reporting order.
var Categories = [NumCategories]Category{Location, Risk, Financial, Market, Profit}

var categoryNames = [NumCategories]string{
	Location:  "location",
	Risk:      "risk",
	Financial: "financial",
	Market:    "market",
	Profit:    "profit",
}

var categoryTitles = [NumCategories]string{
	Location:  "Location",
	Risk:      "Risk",
	Financial: "Financial",
	Market:    "Market",
	Profit:    "Profit",
}

// String returns the lowercase machine name ("location").
func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Title returns the display name ("Location").
func (c Category) Title() string {
	if c < 0 || int(c) >= NumCategories {
		return "Unknown"
	}
	return categoryTitles[c]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= NumCategories {
		return nil, eris.Errorf("scorer: invalid category %d", int(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(b []byte) error {
	for i, n := range categoryNames {
		if n == string(b) {
			*c = Category(i)
			return nil
		}
	}
	return eris.Errorf("scorer: unknown category %q", string(b))
}

// Weight returns the category's share of the total score.
func (c Category) Weight(w config.WeightsConfig) float64 {
	switch c {
	case Location:
		return w.Location
	case Risk:
		return w.Risk
	case Financial:
		return w.Financial
	case Market:
		return w.Market
	case Profit:
		return w.Profit
	}
	return 0
}

// CategoryScore is one category's bounded score plus the rationale behind it.
type CategoryScore struct {
	Category  Category `json:"category"`
	Score     float64  `json:"score"`
	Rationale []string `json:"rationale"`
	// UsedDefault is set when a documented missing-data default drove the score.
	UsedDefault bool `json:"used_default,omitempty"`
}

// scoreFunc scores one category. Implementations are pure and total.
type scoreFunc func(p *model.PropertyRecord, ext *model.ExternalSignals, cfg *config.ScoringConfig) CategoryScore

// categoryScorers is indexed by Category.
var categoryScorers = [NumCategories]scoreFunc{
	Location:  scoreLocation,
	Risk:      scoreRisk,
	Financial: scoreFinancial,
	Market:    scoreMarket,
	Profit:    scoreProfit,
}

// ScoreCategory runs a single category scorer. ext may be nil.
func ScoreCategory(c Category, p *model.PropertyRecord, ext *model.ExternalSignals, cfg config.ScoringConfig) CategoryScore {
	if ext == nil {
		ext = &model.ExternalSignals{}
	}
	cs := categoryScorers[c](p, ext, &cfg)
	cs.Category = c
	cs.Score = Round(clamp(cs.Score, 0, 100), 1)
	return cs
}
