// Package scorer turns a tax-deed property and its enrichment signals into
// five bounded category scores, a weighted total, a letter grade and a
// data-completeness confidence.
package scorer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taxdeed-cli/internal/config"
)

// DefaultScoringConfig returns the shipped scoring table. Weights sum to 1.0.
func DefaultScoringConfig() config.ScoringConfig {
	return config.DefaultScoringConfig()
}

// WeightSum returns the sum of all category weights.
func WeightSum(c config.ScoringConfig) float64 {
	var sum float64
	for _, cat := range Categories {
		sum += cat.Weight(c.Weights)
	}
	return sum
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	// Weights.
	for _, cat := range Categories {
		if w := cat.Weight(c.Weights); w < 0 {
			errs = append(errs, fmt.Sprintf("weights.%s must be >= 0", cat))
		}
	}
	sum := WeightSum(c)
	if math.Abs(sum-1) > 0.001 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1.0, got %.3f", sum))
	}

	// Grade bands must be strictly descending inside (0,100].
	g := c.Grades
	if g.A > 100 || g.A <= g.B || g.B <= g.C || g.C <= g.D || g.D <= 0 {
		errs = append(errs, "grades must satisfy 100 >= a > b > c > d > 0")
	}
	if g.ModifierFraction <= 0 || g.ModifierFraction >= 0.5 {
		errs = append(errs, "grades.modifier_fraction must be in (0, 0.5)")
	}

	// Comparison thresholds.
	cc := c.Comparison
	if cc.NegligibleBelow <= 0 || cc.NegligibleBelow >= cc.ModerateBelow || cc.ModerateBelow >= cc.SignificantBelow {
		errs = append(errs, "comparison magnitude thresholds must be positive and ascending")
	}
	if cc.TieTolerance < 0 || cc.TieTolerance > cc.NegligibleBelow {
		errs = append(errs, "comparison.tie_tolerance must be in [0, negligible_below]")
	}
	if cc.PercentEpsilon <= 0 {
		errs = append(errs, "comparison.percent_epsilon must be > 0")
	}
	if cc.ConfidenceFloor < 0 || cc.ConfidenceFloor > 100 {
		errs = append(errs, "comparison.confidence_floor must be between 0 and 100")
	}
	if cc.MinorityWinMax < 0 || cc.MinorityWinMax >= NumCategories {
		errs = append(errs, fmt.Sprintf("comparison.minority_win_max must be between 0 and %d", NumCategories-1))
	}

	// Location.
	if c.Location.WalkWeight < 0 || c.Location.TransitWeight < 0 || c.Location.BikeWeight < 0 {
		errs = append(errs, "location sub-score weights must be >= 0")
	}
	if c.Location.WalkWeight+c.Location.TransitWeight+c.Location.BikeWeight <= 0 {
		errs = append(errs, "location sub-score weights must sum to > 0")
	}

	// Risk.
	if c.Risk.NationalViolentRate <= 0 || c.Risk.NationalPropertyRate <= 0 {
		errs = append(errs, "risk national crime rates must be > 0")
	}

	// Penalties and bonuses are magnitudes.
	for name, p := range map[string]float64{
		"risk.caution_penalty":                c.Risk.CautionPenalty,
		"risk.reject_penalty":                 c.Risk.RejectPenalty,
		"risk.landlocked_penalty":             c.Risk.LandlockedPenalty,
		"risk.old_structure_penalty":          c.Risk.OldStructurePenalty,
		"financial.no_market_value_penalty":   c.Financial.NoMarketValuePenalty,
		"financial.debt_age_penalty_per_year": c.Financial.DebtAgePenaltyPerYear,
		"financial.debt_age_penalty_cap":      c.Financial.DebtAgePenaltyCap,
		"market.opportunity_bonus":            c.Market.OpportunityBonus,
		"market.unreliable_penalty":           c.Market.UnreliablePenalty,
	} {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	// Financial buckets ascend by ratio.
	if len(c.Financial.RatioBuckets) == 0 {
		errs = append(errs, "financial.ratio_buckets must not be empty")
	}
	for i := 1; i < len(c.Financial.RatioBuckets); i++ {
		if c.Financial.RatioBuckets[i].MaxRatio <= c.Financial.RatioBuckets[i-1].MaxRatio {
			errs = append(errs, "financial.ratio_buckets must be ascending by max_ratio")
			break
		}
	}

	// Market.
	if c.Market.OpportunityRatio <= 0 || c.Market.OpportunityRatio >= 1 || c.Market.UnreliableRatio <= 1 {
		errs = append(errs, "market ratios must satisfy 0 < opportunity_ratio < 1 < unreliable_ratio")
	}

	// Profit.
	if c.Profit.HighMarginThreshold <= 0 || c.Profit.HighMarginThreshold >= 1 {
		errs = append(errs, "profit.high_margin_threshold must be in (0, 1)")
	}
	if c.Profit.ScoreAtThreshold <= 0 || c.Profit.ScoreAtThreshold > 100 {
		errs = append(errs, "profit.score_at_threshold must be in (0, 100]")
	}
	if c.Profit.DecayScale <= 0 {
		errs = append(errs, "profit.decay_scale must be > 0")
	}

	// Missing-data defaults are scores themselves.
	for name, d := range map[string]float64{
		"location.missing_default":      c.Location.MissingDefault,
		"risk.missing_default":          c.Risk.MissingDefault,
		"financial.missing_default":     c.Financial.MissingDefault,
		"market.missing_school_default": c.Market.MissingSchoolDefault,
		"profit.missing_default":        c.Profit.MissingDefault,
	} {
		if d < 0 || d > 100 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 100", name))
		}
	}

	if len(errs) > 0 {
		// Map iteration order varies; keep the message stable.
		sort.Strings(errs)
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ConfigHash returns a short stable fingerprint of the scoring table. Two
// ScoreResults are comparable only when their hashes match.
func ConfigHash(c config.ScoringConfig) string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
