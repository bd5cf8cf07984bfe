package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/model"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

func testResults(t *testing.T) (*scorer.ScoreResult, *scorer.ScoreResult, *compare.ComparisonResult) {
	t.Helper()
	engine, err := compare.New(scorer.DefaultScoringConfig())
	require.NoError(t, err)

	a, err := engine.Scorer().Score(&model.PropertyRecord{
		ParcelID:    "12-345-678",
		Address:     "101 Main St",
		County:      "Allegheny",
		State:       "PA",
		TotalDue:    model.Some(8500.0),
		MarketValue: model.Some(225000.0),
	}, &model.ExternalSignals{
		WalkScore: model.Some(85.0),
		Crime:     model.CrimeSignals{Index: model.Some(25.0)},
		Schools:   model.SchoolSignals{Overall: model.Some(8.0)},
	})
	require.NoError(t, err)

	b, err := engine.Scorer().Score(&model.PropertyRecord{
		ParcelID:    "98-765-432",
		Address:     "22 Side Ave",
		County:      "Allegheny",
		State:       "PA",
		TotalDue:    model.Some(12500.0),
		MarketValue: model.Some(115000.0),
	}, &model.ExternalSignals{
		WalkScore: model.Some(62.0),
		Crime:     model.CrimeSignals{Index: model.Some(58.0)},
		Schools:   model.SchoolSignals{Overall: model.Some(5.0)},
	})
	require.NoError(t, err)

	return a, b, engine.Compare(a, b)
}
