package scorer

import (
	"fmt"
	"math"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// scoreMarket starts from school quality and adjusts for the gap between
// assessed and market value. A low assessed/market ratio reads as upside; a
// high one means the market value is probably stale or wrong.
func scoreMarket(p *model.PropertyRecord, ext *model.ExternalSignals, cfg *config.ScoringConfig) CategoryScore {
	mc := cfg.Market
	var cs CategoryScore

	if rating, ok := ext.Schools.Rating().Get(); ok {
		rating = clamp(rating, 0, 10)
		cs.Score = rating * 10
		r := fmt.Sprintf("school rating %.1f/10", rating)
		if ext.Schools.Source != "" {
			r += " (" + ext.Schools.Source + ")"
		}
		cs.Rationale = append(cs.Rationale, r)
	} else {
		cs.Score = mc.MissingSchoolDefault
		cs.UsedDefault = true
		cs.Rationale = append(cs.Rationale, "no school rating; neutral default applied")
	}

	av, hasAV := p.AssessedValue.Get()
	mv, hasMV := p.MarketValue.Get()
	if !hasAV || !hasMV || av <= 0 || mv <= 0 {
		return cs
	}

	ratio := av / mv
	gap := math.Abs(1-ratio) * 100
	switch {
	case ratio < mc.OpportunityRatio:
		cs.Score += mc.OpportunityBonus
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("assessed value %.0f%% below market value: potential opportunity (+%.0f)", gap, mc.OpportunityBonus))
	case ratio > mc.UnreliableRatio:
		cs.Score -= mc.UnreliablePenalty
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("assessed value %.0f%% above market value: market valuation may be unreliable (-%.0f)", gap, mc.UnreliablePenalty))
	default:
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("assessed value within %.0f%% of market value", gap))
	}
	return cs
}
