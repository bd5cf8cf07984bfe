package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/model"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// testResults scores two parcels and compares them.
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
	}, &model.ExternalSignals{WalkScore: model.Some(85.0)})
	require.NoError(t, err)

	b, err := engine.Scorer().Score(&model.PropertyRecord{
		ParcelID:    "98-765-432",
		Address:     "22 Side Ave",
		County:      "Allegheny",
		State:       "PA",
		TotalDue:    model.Some(12500.0),
		MarketValue: model.Some(115000.0),
	}, &model.ExternalSignals{WalkScore: model.Some(62.0)})
	require.NoError(t, err)

	return a, b, engine.Compare(a, b)
}

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}
