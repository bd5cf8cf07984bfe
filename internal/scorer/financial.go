package scorer

import (
	"fmt"
	"math"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// scoreFinancial buckets the tax-debt-to-value ratio, then penalizes a
// missing market value and old tax debt.
func scoreFinancial(p *model.PropertyRecord, _ *model.ExternalSignals, cfg *config.ScoringConfig) CategoryScore {
	fc := cfg.Financial

	mv, hasMV := p.MarketValue.Get()
	av, hasAV := p.AssessedValue.Get()
	basis, usedMarket, ok := valueBasis(mv, av, hasMV, hasAV)
	if !ok {
		return CategoryScore{
			Score:       fc.MissingDefault,
			Rationale:   []string{"no assessed or market value; conservative default applied"},
			UsedDefault: true,
		}
	}
	due, hasDue := p.TotalDue.Get()
	if !hasDue {
		return CategoryScore{
			Score:       fc.MissingDefault,
			Rationale:   []string{"amount due unknown; conservative default applied"},
			UsedDefault: true,
		}
	}

	basisName := "market"
	if !usedMarket {
		basisName = "assessed"
	}
	ratio := due / basis
	cs := CategoryScore{
		Score: debtRatioScore(ratio, fc),
		Rationale: []string{fmt.Sprintf("tax debt is %.1f%% of %s value (%s / %s)",
			ratio*100, basisName, FormatMoney(due), FormatMoney(basis))},
	}

	if !usedMarket {
		cs.Score -= fc.NoMarketValuePenalty
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("no credible market value; assessed value used (-%.0f)", fc.NoMarketValuePenalty))
	}

	if penalty, age, ok := debtAgePenalty(p, fc); ok {
		if penalty > 0 {
			cs.Score -= penalty
			cs.Rationale = append(cs.Rationale, fmt.Sprintf("tax debt is %d years old (-%.0f)", age, penalty))
		} else {
			cs.Rationale = append(cs.Rationale, "recent tax debt")
		}
	}

	return cs
}

// debtRatioScore maps a ratio onto the first bucket whose MaxRatio it does
// not exceed.
func debtRatioScore(ratio float64, fc config.FinancialConfig) float64 {
	for _, b := range fc.RatioBuckets {
		if ratio <= b.MaxRatio {
			return b.Score
		}
	}
	return fc.OverflowScore
}

// debtAgePenalty returns the recency penalty, measured from the delinquent
// tax year to the sale date. ok is false when either is unknown.
func debtAgePenalty(p *model.PropertyRecord, fc config.FinancialConfig) (penalty float64, age int, ok bool) {
	taxYear, hasTY := p.TaxYear.Get()
	saleDate, hasSD := p.SaleDate.Get()
	if !hasTY || !hasSD {
		return 0, 0, false
	}
	age = saleDate.Year() - taxYear
	if age <= 1 {
		return 0, age, true
	}
	penalty = math.Min(float64(age-1)*fc.DebtAgePenaltyPerYear, fc.DebtAgePenaltyCap)
	return penalty, age, true
}
