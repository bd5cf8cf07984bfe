package scorer

import (
	"fmt"
	"math"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// scoreProfit maps the potential margin (value - due) / value onto the
// score range, linear up to the high-margin threshold and exponentially
// saturating toward 100 above it.
func scoreProfit(p *model.PropertyRecord, _ *model.ExternalSignals, cfg *config.ScoringConfig) CategoryScore {
	pc := cfg.Profit

	mv, hasMV := p.MarketValue.Get()
	av, hasAV := p.AssessedValue.Get()
	value, usedMarket, ok := valueBasis(mv, av, hasMV, hasAV)
	due, hasDue := p.TotalDue.Get()
	if !ok || !hasDue {
		return CategoryScore{
			Score:       pc.MissingDefault,
			Rationale:   []string{"cannot estimate margin without a valuation and amount due; conservative default applied"},
			UsedDefault: true,
		}
	}

	margin := (value - due) / value
	cs := CategoryScore{
		Score: MarginScore(margin, pc),
		Rationale: []string{fmt.Sprintf("potential margin %.1f%% (%s spread on %s)",
			margin*100, FormatMoney(value-due), FormatMoney(value))},
	}
	if !usedMarket {
		cs.Rationale = append(cs.Rationale, "margin measured against assessed value")
	}
	switch {
	case margin <= 0:
		cs.Rationale = append(cs.Rationale, "amount due meets or exceeds value")
	case margin > pc.HighMarginThreshold:
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("margin above %.0f%%; diminishing returns applied", pc.HighMarginThreshold*100))
	}
	return cs
}

// MarginScore is the profit curve. It is continuous and non-decreasing in
// margin, and never exceeds 100.
func MarginScore(margin float64, pc config.ProfitConfig) float64 {
	switch {
	case math.IsNaN(margin) || margin <= 0:
		return 0
	case margin <= pc.HighMarginThreshold:
		return pc.ScoreAtThreshold * margin / pc.HighMarginThreshold
	default:
		headroom := 100 - pc.ScoreAtThreshold
		return pc.ScoreAtThreshold + headroom*(1-math.Exp(-(margin-pc.HighMarginThreshold)/pc.DecayScale))
	}
}
