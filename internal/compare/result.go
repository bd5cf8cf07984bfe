// Package compare turns two ScoreResults into an explainable comparison: per
// category and overall differentials, magnitudes and winners, plus an
// investment recommendation with reasons, trade-offs and warnings.
package compare

import "github.com/sells-group/taxdeed-cli/internal/scorer"

// Winner names the side with the higher score, or a tie.
type Winner string

// Winners.
const (
	WinnerProperty1 Winner = "property1"
	WinnerProperty2 Winner = "property2"
	WinnerTie       Winner = "tie"
)

// Flip returns the winner as seen with the two sides swapped.
func (w Winner) Flip() Winner {
	switch w {
	case WinnerProperty1:
		return WinnerProperty2
	case WinnerProperty2:
		return WinnerProperty1
	default:
		return w
	}
}

// Magnitude buckets the size of a score differential.
type Magnitude string

// Magnitudes, smallest first.
const (
	MagnitudeNegligible  Magnitude = "negligible"
	MagnitudeModerate    Magnitude = "moderate"
	MagnitudeSignificant Magnitude = "significant"
	MagnitudeDramatic    Magnitude = "dramatic"
)

func (m Magnitude) rank() int {
	switch m {
	case MagnitudeModerate:
		return 1
	case MagnitudeSignificant:
		return 2
	case MagnitudeDramatic:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether m is o or larger.
func (m Magnitude) AtLeast(o Magnitude) bool {
	return m.rank() >= o.rank()
}

// Verdict is the recommendation vocabulary.
type Verdict string

// Verdicts.
const (
	VerdictPreferProperty1 Verdict = "prefer-property1"
	VerdictPreferProperty2 Verdict = "prefer-property2"
	VerdictComparable      Verdict = "comparable"
)

// Strength qualifies a verdict.
type Strength string

// Strengths, weakest first.
const (
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// weaker lowers s by one step.
func (s Strength) weaker() Strength {
	if s == StrengthStrong {
		return StrengthModerate
	}
	return StrengthWeak
}

// WarningCode identifies a warning kind.
type WarningCode string

// Warning codes.
const (
	WarningLowConfidence      WarningCode = "low_confidence"
	WarningMinorityWins       WarningCode = "minority_wins"
	WarningSelfComparison     WarningCode = "self_comparison"
	WarningIncompatibleConfig WarningCode = "incompatible_config"
)

// Warning flags a condition the reader of a comparison should know about.
type Warning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Message string      `json:"message" yaml:"message"`
}

// PropertyRef identifies one side of a comparison.
type PropertyRef struct {
	PropertyKey     string             `json:"property_key" yaml:"property_key"`
	ParcelID        string             `json:"parcel_id" yaml:"parcel_id"`
	Address         string             `json:"address,omitempty" yaml:"address,omitempty"`
	TotalScore      float64            `json:"total_score" yaml:"total_score"`
	Grade           scorer.GradeResult `json:"grade" yaml:"grade"`
	ConfidenceLevel int                `json:"confidence_level" yaml:"confidence_level"`
}

// Name returns the address when known, otherwise the parcel id.
func (r PropertyRef) Name() string {
	if r.Address != "" {
		return r.Address
	}
	return r.ParcelID
}

// CategoryComparison compares one category across both sides. Differential
// is property1 minus property2.
type CategoryComparison struct {
	Category               scorer.Category      `json:"category" yaml:"category"`
	Property1              scorer.CategoryScore `json:"property1" yaml:"property1"`
	Property2              scorer.CategoryScore `json:"property2" yaml:"property2"`
	Differential           float64              `json:"differential" yaml:"differential"`
	PercentageDifferential float64              `json:"percentage_differential" yaml:"percentage_differential"`
	Magnitude              Magnitude            `json:"magnitude" yaml:"magnitude"`
	Winner                 Winner               `json:"winner" yaml:"winner"`
}

// Side returns the category score for the given winner side.
func (c CategoryComparison) Side(w Winner) scorer.CategoryScore {
	if w == WinnerProperty2 {
		return c.Property2
	}
	return c.Property1
}

// CategorySummary tallies per-category winners. It is informational only and
// never decides the overall winner.
type CategorySummary struct {
	Property1Wins int `json:"property1_wins" yaml:"property1_wins"`
	Property2Wins int `json:"property2_wins" yaml:"property2_wins"`
	Ties          int `json:"ties" yaml:"ties"`
}

// Wins returns the win count for w (ties when w is WinnerTie).
func (s CategorySummary) Wins(w Winner) int {
	switch w {
	case WinnerProperty1:
		return s.Property1Wins
	case WinnerProperty2:
		return s.Property2Wins
	default:
		return s.Ties
	}
}

// Recommendation is the investor-facing verdict. Reasons are derived only
// from category comparisons that back the overall winner.
type Recommendation struct {
	Verdict  Verdict  `json:"verdict" yaml:"verdict"`
	Strength Strength `json:"strength" yaml:"strength"`
	Summary  string   `json:"summary" yaml:"summary"`
	Reasons  []string `json:"reasons" yaml:"reasons"`
}

// Outcome describes how the losing side fared in a trade-off category.
type Outcome string

// Trade-off outcomes.
const (
	OutcomeWon  Outcome = "won"
	OutcomeTied Outcome = "tied"
)

// TradeOff is one category the overall loser still won or tied.
type TradeOff struct {
	Category     scorer.Category `json:"category" yaml:"category"`
	Outcome      Outcome         `json:"outcome" yaml:"outcome"`
	Differential float64         `json:"differential" yaml:"differential"`
	Rationale    []string        `json:"rationale" yaml:"rationale"`
}

// TradeOffs lists what the overall loser is still good for. Side is empty and
// Items is empty when the overall result is a tie.
type TradeOffs struct {
	Side  Winner     `json:"side,omitempty" yaml:"side,omitempty"`
	Items []TradeOff `json:"items" yaml:"items"`
}

// ComparisonResult is the full, explainable comparison of two properties.
type ComparisonResult struct {
	Property1  PropertyRef                              `json:"property1" yaml:"property1"`
	Property2  PropertyRef                              `json:"property2" yaml:"property2"`
	Categories [scorer.NumCategories]CategoryComparison `json:"categories" yaml:"categories"`

	TotalDifferential           float64   `json:"total_differential" yaml:"total_differential"`
	TotalPercentageDifferential float64   `json:"total_percentage_differential" yaml:"total_percentage_differential"`
	OverallMagnitude            Magnitude `json:"overall_magnitude" yaml:"overall_magnitude"`
	OverallWinner               Winner    `json:"overall_winner" yaml:"overall_winner"`

	CategorySummary      CategorySummary `json:"category_summary" yaml:"category_summary"`
	Recommendation       Recommendation  `json:"recommendation" yaml:"recommendation"`
	TradeOffs            TradeOffs       `json:"tradeoffs" yaml:"tradeoffs"`
	Warnings             []Warning       `json:"warnings" yaml:"warnings"`
	ComparisonConfidence int             `json:"comparison_confidence" yaml:"comparison_confidence"`

	ConfigHash string `json:"config_hash" yaml:"config_hash"`
}

// Ref returns the PropertyRef for a side.
func (r *ComparisonResult) Ref(w Winner) PropertyRef {
	if w == WinnerProperty2 {
		return r.Property2
	}
	return r.Property1
}

// Category returns the comparison for c.
func (r *ComparisonResult) Category(c scorer.Category) CategoryComparison {
	return r.Categories[c]
}

// HasWarning reports whether a warning with code is present.
func (r *ComparisonResult) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
