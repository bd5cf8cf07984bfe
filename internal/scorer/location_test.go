package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name        string
		ext         *model.ExternalSignals
		want        float64
		usedDefault bool
		rationale   string
	}{
		{"no signals", &model.ExternalSignals{}, 50, true, "insufficient location data"},
		{"walk only", &model.ExternalSignals{WalkScore: model.Some(85.0)}, 85, false, "walkable neighborhood"},
		{"all three", &model.ExternalSignals{
			WalkScore:    model.Some(80.0),
			TransitScore: model.Some(60.0),
			BikeScore:    model.Some(40.0),
		}, 66, false, "transit score 60"},
		{"transit and bike renormalized", &model.ExternalSignals{
			TransitScore: model.Some(50.0),
			BikeScore:    model.Some(100.0),
		}, 70, false, "bike score 100"},
		{"car dependent", &model.ExternalSignals{WalkScore: model.Some(10.0)}, 10, false, "car-dependent area"},
		{"zero walk score is data", &model.ExternalSignals{WalkScore: model.Some(0.0)}, 0, false, "walk score 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreCategory(Location, &model.PropertyRecord{}, tt.ext, defaultTestConfig())
			assert.InDelta(t, tt.want, got.Score, 0.05)
			assert.Equal(t, tt.usedDefault, got.UsedDefault)
			assert.Contains(t, got.Rationale, tt.rationale)
		})
	}
}
