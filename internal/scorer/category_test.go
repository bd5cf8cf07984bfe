package scorer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

func TestCategoryNames(t *testing.T) {
	tests := []struct {
		cat   Category
		name  string
		title string
	}{
		{Location, "location", "Location"},
		{Risk, "risk", "Risk"},
		{Financial, "financial", "Financial"},
		{Market, "market", "Market"},
		{Profit, "profit", "Profit"},
		{Category(7), "unknown", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cat.String())
			assert.Equal(t, tt.title, tt.cat.Title())
		})
	}
}

func TestCategoryTextRoundTrip(t *testing.T) {
	for _, c := range Categories {
		b, err := c.MarshalText()
		require.NoError(t, err)

		var got Category
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, c, got)
	}

	var c Category
	assert.Error(t, c.UnmarshalText([]byte("vibes")))
	_, err := Category(-1).MarshalText()
	assert.Error(t, err)
}

func TestCategoryScoreJSON(t *testing.T) {
	cs := CategoryScore{Category: Risk, Score: 75, Rationale: []string{"crime index 25 (low)"}}
	b, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"risk","score":75,"rationale":["crime index 25 (low)"]}`, string(b))
}

func TestCategoryWeight(t *testing.T) {
	w := defaultTestConfig().Weights
	assert.InDelta(t, 0.20, Location.Weight(w), 1e-9)
	assert.InDelta(t, 0.25, Risk.Weight(w), 1e-9)
	assert.InDelta(t, 0.25, Financial.Weight(w), 1e-9)
	assert.InDelta(t, 0.15, Market.Weight(w), 1e-9)
	assert.InDelta(t, 0.15, Profit.Weight(w), 1e-9)
	assert.Zero(t, Category(9).Weight(w))
}

func TestScoreCategoryClampsAndRounds(t *testing.T) {
	cfg := defaultTestConfig()
	p := &model.PropertyRecord{
		ParcelID:         "1",
		County:           "X",
		State:            "PA",
		ValidationStatus: model.ValidationReject,
		Landlocked:       model.Some(true),
		YearBuilt:        model.Some(1901),
	}
	ext := &model.ExternalSignals{Crime: model.CrimeSignals{Index: model.Some(95.0)}}

	// 5 - 35 - 20 - 5 would go negative.
	cs := ScoreCategory(Risk, p, ext, cfg)
	assert.Equal(t, Risk, cs.Category)
	assert.Zero(t, cs.Score)

	ext = &model.ExternalSignals{WalkScore: model.Some(33.33), TransitScore: model.Some(66.66)}
	cs = ScoreCategory(Location, p, ext, cfg)
	// (33.33*0.5 + 66.66*0.3) / 0.8 = 45.83...
	assert.InDelta(t, 45.8, cs.Score, 1e-9)
}

func TestScoreCategoryNilSignals(t *testing.T) {
	p, _ := propertyOne()
	for _, c := range Categories {
		assert.NotPanics(t, func() {
			cs := ScoreCategory(c, p, nil, defaultTestConfig())
			assert.NotEmpty(t, cs.Rationale, c.String())
		})
	}
}
