package config

import "github.com/spf13/viper"

// ScoringConfig is the single table of weights, bands, thresholds and
// missing-data defaults consumed by every scorer, the grader and the
// comparison engine. Scores are on a 0-100 scale throughout.
type ScoringConfig struct {
	Weights    WeightsConfig    `yaml:"weights" mapstructure:"weights" json:"weights"`
	Grades     GradeConfig      `yaml:"grades" mapstructure:"grades" json:"grades"`
	Comparison ComparisonConfig `yaml:"comparison" mapstructure:"comparison" json:"comparison"`
	Location   LocationConfig   `yaml:"location" mapstructure:"location" json:"location"`
	Risk       RiskConfig       `yaml:"risk" mapstructure:"risk" json:"risk"`
	Financial  FinancialConfig  `yaml:"financial" mapstructure:"financial" json:"financial"`
	Market     MarketConfig     `yaml:"market" mapstructure:"market" json:"market"`
	Profit     ProfitConfig     `yaml:"profit" mapstructure:"profit" json:"profit"`
}

// WeightsConfig holds the category weights of the total score. They sum to 1.0.
type WeightsConfig struct {
	Location  float64 `yaml:"location" mapstructure:"location" json:"location"`
	Risk      float64 `yaml:"risk" mapstructure:"risk" json:"risk"`
	Financial float64 `yaml:"financial" mapstructure:"financial" json:"financial"`
	Market    float64 `yaml:"market" mapstructure:"market" json:"market"`
	Profit    float64 `yaml:"profit" mapstructure:"profit" json:"profit"`
}

// GradeConfig holds the lower bound of each letter band. F is everything
// below D. ModifierFraction is the share of a band at its top ("+") and
// bottom ("-") edges.
type GradeConfig struct {
	A                float64 `yaml:"a" mapstructure:"a" json:"a"`
	B                float64 `yaml:"b" mapstructure:"b" json:"b"`
	C                float64 `yaml:"c" mapstructure:"c" json:"c"`
	D                float64 `yaml:"d" mapstructure:"d" json:"d"`
	ModifierFraction float64 `yaml:"modifier_fraction" mapstructure:"modifier_fraction" json:"modifier_fraction"`
}

// ComparisonConfig holds magnitude bands and recommendation thresholds.
// Magnitude is classified on the absolute score differential:
// negligible < NegligibleBelow <= moderate < ModerateBelow <= significant < SignificantBelow <= dramatic.
type ComparisonConfig struct {
	NegligibleBelow  float64 `yaml:"negligible_below" mapstructure:"negligible_below" json:"negligible_below"`
	ModerateBelow    float64 `yaml:"moderate_below" mapstructure:"moderate_below" json:"moderate_below"`
	SignificantBelow float64 `yaml:"significant_below" mapstructure:"significant_below" json:"significant_below"`
	TieTolerance     float64 `yaml:"tie_tolerance" mapstructure:"tie_tolerance" json:"tie_tolerance"`
	PercentEpsilon   float64 `yaml:"percent_epsilon" mapstructure:"percent_epsilon" json:"percent_epsilon"`
	ConfidenceFloor  float64 `yaml:"confidence_floor" mapstructure:"confidence_floor" json:"confidence_floor"`
	MinorityWinMax   int     `yaml:"minority_win_max" mapstructure:"minority_win_max" json:"minority_win_max"`
}

// LocationConfig weights walk/transit/bike sub-scores.
type LocationConfig struct {
	WalkWeight     float64 `yaml:"walk_weight" mapstructure:"walk_weight" json:"walk_weight"`
	TransitWeight  float64 `yaml:"transit_weight" mapstructure:"transit_weight" json:"transit_weight"`
	BikeWeight     float64 `yaml:"bike_weight" mapstructure:"bike_weight" json:"bike_weight"`
	MissingDefault float64 `yaml:"missing_default" mapstructure:"missing_default" json:"missing_default"`
}

// RiskConfig holds the crime default and property flag penalties.
type RiskConfig struct {
	MissingDefault       float64 `yaml:"missing_default" mapstructure:"missing_default" json:"missing_default"`
	CautionPenalty       float64 `yaml:"caution_penalty" mapstructure:"caution_penalty" json:"caution_penalty"`
	RejectPenalty        float64 `yaml:"reject_penalty" mapstructure:"reject_penalty" json:"reject_penalty"`
	LandlockedPenalty    float64 `yaml:"landlocked_penalty" mapstructure:"landlocked_penalty" json:"landlocked_penalty"`
	OldStructureYear     int     `yaml:"old_structure_year" mapstructure:"old_structure_year" json:"old_structure_year"`
	OldStructurePenalty  float64 `yaml:"old_structure_penalty" mapstructure:"old_structure_penalty" json:"old_structure_penalty"`
	NationalViolentRate  float64 `yaml:"national_violent_rate" mapstructure:"national_violent_rate" json:"national_violent_rate"`
	NationalPropertyRate float64 `yaml:"national_property_rate" mapstructure:"national_property_rate" json:"national_property_rate"`
}

// RatioBucket maps a debt-to-value ratio at or below MaxRatio to Score.
type RatioBucket struct {
	MaxRatio float64 `yaml:"max_ratio" mapstructure:"max_ratio" json:"max_ratio"`
	Score    float64 `yaml:"score" mapstructure:"score" json:"score"`
}

// FinancialConfig holds debt ratio buckets and penalties.
type FinancialConfig struct {
	RatioBuckets          []RatioBucket `yaml:"ratio_buckets" mapstructure:"ratio_buckets" json:"ratio_buckets"`
	OverflowScore         float64       `yaml:"overflow_score" mapstructure:"overflow_score" json:"overflow_score"`
	NoMarketValuePenalty  float64       `yaml:"no_market_value_penalty" mapstructure:"no_market_value_penalty" json:"no_market_value_penalty"`
	DebtAgePenaltyPerYear float64       `yaml:"debt_age_penalty_per_year" mapstructure:"debt_age_penalty_per_year" json:"debt_age_penalty_per_year"`
	DebtAgePenaltyCap     float64       `yaml:"debt_age_penalty_cap" mapstructure:"debt_age_penalty_cap" json:"debt_age_penalty_cap"`
	MissingDefault        float64       `yaml:"missing_default" mapstructure:"missing_default" json:"missing_default"`
}

// MarketConfig holds the school default and assessed/market gap branches.
type MarketConfig struct {
	MissingSchoolDefault float64 `yaml:"missing_school_default" mapstructure:"missing_school_default" json:"missing_school_default"`
	OpportunityRatio     float64 `yaml:"opportunity_ratio" mapstructure:"opportunity_ratio" json:"opportunity_ratio"`
	OpportunityBonus     float64 `yaml:"opportunity_bonus" mapstructure:"opportunity_bonus" json:"opportunity_bonus"`
	UnreliableRatio      float64 `yaml:"unreliable_ratio" mapstructure:"unreliable_ratio" json:"unreliable_ratio"`
	UnreliablePenalty    float64 `yaml:"unreliable_penalty" mapstructure:"unreliable_penalty" json:"unreliable_penalty"`
}

// ProfitConfig maps potential margin onto the score range. Margins above
// HighMarginThreshold approach 100 exponentially with DecayScale.
type ProfitConfig struct {
	HighMarginThreshold float64 `yaml:"high_margin_threshold" mapstructure:"high_margin_threshold" json:"high_margin_threshold"`
	ScoreAtThreshold    float64 `yaml:"score_at_threshold" mapstructure:"score_at_threshold" json:"score_at_threshold"`
	DecayScale          float64 `yaml:"decay_scale" mapstructure:"decay_scale" json:"decay_scale"`
	MissingDefault      float64 `yaml:"missing_default" mapstructure:"missing_default" json:"missing_default"`
}

// DefaultScoringConfig returns the shipped scoring table.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		// Weights (sum = 1.0).
		Weights: WeightsConfig{
			Location:  0.20,
			Risk:      0.25,
			Financial: 0.25,
			Market:    0.15,
			Profit:    0.15,
		},
		Grades: GradeConfig{
			A:                85,
			B:                70,
			C:                55,
			D:                40,
			ModifierFraction: 1.0 / 3.0,
		},
		Comparison: ComparisonConfig{
			NegligibleBelow:  5,
			ModerateBelow:    15,
			SignificantBelow: 30,
			TieTolerance:     2,
			PercentEpsilon:   1,
			ConfidenceFloor:  50,
			MinorityWinMax:   2,
		},
		Location: LocationConfig{
			WalkWeight:     0.5,
			TransitWeight:  0.3,
			BikeWeight:     0.2,
			MissingDefault: 50,
		},
		Risk: RiskConfig{
			MissingDefault:       40,
			CautionPenalty:       15,
			RejectPenalty:        35,
			LandlockedPenalty:    20,
			OldStructureYear:     1940,
			OldStructurePenalty:  5,
			NationalViolentRate:  380,  // per 100k
			NationalPropertyRate: 1954, // per 100k
		},
		Financial: FinancialConfig{
			RatioBuckets: []RatioBucket{
				{MaxRatio: 0.02, Score: 100},
				{MaxRatio: 0.05, Score: 85},
				{MaxRatio: 0.10, Score: 70},
				{MaxRatio: 0.20, Score: 50},
				{MaxRatio: 0.35, Score: 30},
			},
			OverflowScore:         10,
			NoMarketValuePenalty:  10,
			DebtAgePenaltyPerYear: 5,
			DebtAgePenaltyCap:     20,
			MissingDefault:        30,
		},
		Market: MarketConfig{
			MissingSchoolDefault: 50,
			OpportunityRatio:     0.70,
			OpportunityBonus:     10,
			UnreliableRatio:      1.30,
			UnreliablePenalty:    15,
		},
		Profit: ProfitConfig{
			HighMarginThreshold: 0.60,
			ScoreAtThreshold:    80,
			DecayScale:          0.20,
			MissingDefault:      25,
		},
	}
}

func setScoringDefaults(v *viper.Viper, d ScoringConfig) {
	v.SetDefault("scoring.weights.location", d.Weights.Location)
	v.SetDefault("scoring.weights.risk", d.Weights.Risk)
	v.SetDefault("scoring.weights.financial", d.Weights.Financial)
	v.SetDefault("scoring.weights.market", d.Weights.Market)
	v.SetDefault("scoring.weights.profit", d.Weights.Profit)

	v.SetDefault("scoring.grades.a", d.Grades.A)
	v.SetDefault("scoring.grades.b", d.Grades.B)
	v.SetDefault("scoring.grades.c", d.Grades.C)
	v.SetDefault("scoring.grades.d", d.Grades.D)
	v.SetDefault("scoring.grades.modifier_fraction", d.Grades.ModifierFraction)

	v.SetDefault("scoring.comparison.negligible_below", d.Comparison.NegligibleBelow)
	v.SetDefault("scoring.comparison.moderate_below", d.Comparison.ModerateBelow)
	v.SetDefault("scoring.comparison.significant_below", d.Comparison.SignificantBelow)
	v.SetDefault("scoring.comparison.tie_tolerance", d.Comparison.TieTolerance)
	v.SetDefault("scoring.comparison.percent_epsilon", d.Comparison.PercentEpsilon)
	v.SetDefault("scoring.comparison.confidence_floor", d.Comparison.ConfidenceFloor)
	v.SetDefault("scoring.comparison.minority_win_max", d.Comparison.MinorityWinMax)

	v.SetDefault("scoring.location.walk_weight", d.Location.WalkWeight)
	v.SetDefault("scoring.location.transit_weight", d.Location.TransitWeight)
	v.SetDefault("scoring.location.bike_weight", d.Location.BikeWeight)
	v.SetDefault("scoring.location.missing_default", d.Location.MissingDefault)

	v.SetDefault("scoring.risk.missing_default", d.Risk.MissingDefault)
	v.SetDefault("scoring.risk.caution_penalty", d.Risk.CautionPenalty)
	v.SetDefault("scoring.risk.reject_penalty", d.Risk.RejectPenalty)
	v.SetDefault("scoring.risk.landlocked_penalty", d.Risk.LandlockedPenalty)
	v.SetDefault("scoring.risk.old_structure_year", d.Risk.OldStructureYear)
	v.SetDefault("scoring.risk.old_structure_penalty", d.Risk.OldStructurePenalty)
	v.SetDefault("scoring.risk.national_violent_rate", d.Risk.NationalViolentRate)
	v.SetDefault("scoring.risk.national_property_rate", d.Risk.NationalPropertyRate)

	buckets := make([]map[string]any, 0, len(d.Financial.RatioBuckets))
	for _, b := range d.Financial.RatioBuckets {
		buckets = append(buckets, map[string]any{"max_ratio": b.MaxRatio, "score": b.Score})
	}
	v.SetDefault("scoring.financial.ratio_buckets", buckets)
	v.SetDefault("scoring.financial.overflow_score", d.Financial.OverflowScore)
	v.SetDefault("scoring.financial.no_market_value_penalty", d.Financial.NoMarketValuePenalty)
	v.SetDefault("scoring.financial.debt_age_penalty_per_year", d.Financial.DebtAgePenaltyPerYear)
	v.SetDefault("scoring.financial.debt_age_penalty_cap", d.Financial.DebtAgePenaltyCap)
	v.SetDefault("scoring.financial.missing_default", d.Financial.MissingDefault)

	v.SetDefault("scoring.market.missing_school_default", d.Market.MissingSchoolDefault)
	v.SetDefault("scoring.market.opportunity_ratio", d.Market.OpportunityRatio)
	v.SetDefault("scoring.market.opportunity_bonus", d.Market.OpportunityBonus)
	v.SetDefault("scoring.market.unreliable_ratio", d.Market.UnreliableRatio)
	v.SetDefault("scoring.market.unreliable_penalty", d.Market.UnreliablePenalty)

	v.SetDefault("scoring.profit.high_margin_threshold", d.Profit.HighMarginThreshold)
	v.SetDefault("scoring.profit.score_at_threshold", d.Profit.ScoreAtThreshold)
	v.SetDefault("scoring.profit.decay_scale", d.Profit.DecayScale)
	v.SetDefault("scoring.profit.missing_default", d.Profit.MissingDefault)
}
