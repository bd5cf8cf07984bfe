package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

func TestScoreFinancial(t *testing.T) {
	tests := []struct {
		name        string
		prop        model.PropertyRecord
		want        float64
		usedDefault bool
	}{
		{"tiny ratio", model.PropertyRecord{TotalDue: model.Some(1000.0), MarketValue: model.Some(100000.0)}, 100, false},
		{"ratio on bucket edge", model.PropertyRecord{TotalDue: model.Some(2000.0), MarketValue: model.Some(100000.0)}, 100, false},
		{"four percent", model.PropertyRecord{TotalDue: model.Some(8500.0), MarketValue: model.Some(225000.0)}, 85, false},
		{"eight percent", model.PropertyRecord{TotalDue: model.Some(8000.0), MarketValue: model.Some(100000.0)}, 70, false},
		{"eleven percent", model.PropertyRecord{TotalDue: model.Some(12500.0), MarketValue: model.Some(115000.0)}, 50, false},
		{"thirty percent", model.PropertyRecord{TotalDue: model.Some(30000.0), MarketValue: model.Some(100000.0)}, 30, false},
		{"debt exceeds value", model.PropertyRecord{TotalDue: model.Some(150000.0), MarketValue: model.Some(100000.0)}, 10, false},
		{"assessed fallback penalized", model.PropertyRecord{TotalDue: model.Some(1000.0), AssessedValue: model.Some(100000.0)}, 90, false},
		{"zero market value is not credible", model.PropertyRecord{
			TotalDue:      model.Some(1000.0),
			MarketValue:   model.Some(0.0),
			AssessedValue: model.Some(100000.0),
		}, 90, false},
		{"no valuation", model.PropertyRecord{TotalDue: model.Some(1000.0)}, 30, true},
		{"no amount due", model.PropertyRecord{MarketValue: model.Some(100000.0)}, 30, true},
		{"recent debt", model.PropertyRecord{
			TotalDue:    model.Some(1000.0),
			MarketValue: model.Some(100000.0),
			TaxYear:     model.Some(2023),
			SaleDate:    model.Some(date(2024, 9, 10)),
		}, 100, false},
		{"three year old debt", model.PropertyRecord{
			TotalDue:    model.Some(1000.0),
			MarketValue: model.Some(100000.0),
			TaxYear:     model.Some(2021),
			SaleDate:    model.Some(date(2024, 9, 10)),
		}, 90, false},
		{"debt age penalty capped", model.PropertyRecord{
			TotalDue:    model.Some(1000.0),
			MarketValue: model.Some(100000.0),
			TaxYear:     model.Some(2010),
			SaleDate:    model.Some(date(2024, 9, 10)),
		}, 80, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreCategory(Financial, &tt.prop, nil, defaultTestConfig())
			assert.InDelta(t, tt.want, got.Score, 0.001)
			assert.Equal(t, tt.usedDefault, got.UsedDefault)
		})
	}
}

func TestScoreFinancialRationaleCarriesRatio(t *testing.T) {
	p := model.PropertyRecord{TotalDue: model.Some(8500.0), MarketValue: model.Some(225000.0)}
	got := ScoreCategory(Financial, &p, nil, defaultTestConfig())
	assert.Contains(t, got.Rationale, "tax debt is 3.8% of market value ($8,500 / $225,000)")
}
