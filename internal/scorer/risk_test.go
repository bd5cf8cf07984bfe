package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

func TestScoreRisk(t *testing.T) {
	crime := func(idx float64) *model.ExternalSignals {
		return &model.ExternalSignals{Crime: model.CrimeSignals{Index: model.Some(idx)}}
	}
	tests := []struct {
		name        string
		prop        model.PropertyRecord
		ext         *model.ExternalSignals
		want        float64
		usedDefault bool
	}{
		{"low crime", model.PropertyRecord{}, crime(25), 75, false},
		{"high crime", model.PropertyRecord{}, crime(80), 20, false},
		{"no crime data is conservative", model.PropertyRecord{}, &model.ExternalSignals{}, 40, true},
		{"caution penalty", model.PropertyRecord{ValidationStatus: model.ValidationCaution}, crime(25), 60, false},
		{"reject penalty", model.PropertyRecord{ValidationStatus: model.ValidationReject}, crime(25), 40, false},
		{"approved no penalty", model.PropertyRecord{ValidationStatus: model.ValidationApproved}, crime(25), 75, false},
		{"landlocked", model.PropertyRecord{Landlocked: model.Some(true)}, crime(25), 55, false},
		{"road access", model.PropertyRecord{Landlocked: model.Some(false)}, crime(25), 75, false},
		{"old structure", model.PropertyRecord{YearBuilt: model.Some(1925)}, crime(25), 70, false},
		{"1940 is not old", model.PropertyRecord{YearBuilt: model.Some(1940)}, crime(25), 75, false},
		{"floors at zero", model.PropertyRecord{
			ValidationStatus: model.ValidationReject,
			Landlocked:       model.Some(true),
		}, crime(90), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreCategory(Risk, &tt.prop, tt.ext, defaultTestConfig())
			assert.InDelta(t, tt.want, got.Score, 0.001)
			assert.Equal(t, tt.usedDefault, got.UsedDefault)
			assert.NotEmpty(t, got.Rationale)
		})
	}
}

func TestCrimeIndex(t *testing.T) {
	rc := defaultTestConfig().Risk
	tests := []struct {
		name    string
		signals model.CrimeSignals
		want    float64
		derived bool
		ok      bool
	}{
		{"explicit index", model.CrimeSignals{Index: model.Some(42.0)}, 42, false, true},
		{"index wins over rates", model.CrimeSignals{
			Index:        model.Some(10.0),
			ViolentRate:  model.Some(1000.0),
			PropertyRate: model.Some(5000.0),
		}, 10, false, true},
		{"national average rates", model.CrimeSignals{
			ViolentRate:  model.Some(380.0),
			PropertyRate: model.Some(1954.0),
		}, 50, true, true},
		{"half national rates", model.CrimeSignals{
			ViolentRate:  model.Some(190.0),
			PropertyRate: model.Some(977.0),
		}, 25, true, true},
		{"double national rates saturates", model.CrimeSignals{
			ViolentRate:  model.Some(760.0),
			PropertyRate: model.Some(3908.0),
		}, 100, true, true},
		{"one rate is not enough", model.CrimeSignals{ViolentRate: model.Some(380.0)}, 0, false, false},
		{"nothing", model.CrimeSignals{}, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, derived, ok := CrimeIndex(tt.signals, rc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.derived, derived)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestScoreRiskRationaleMentionsSource(t *testing.T) {
	ext := &model.ExternalSignals{Crime: model.CrimeSignals{
		Index:  model.Some(30.0),
		Source: "crimegrade",
		AsOf:   model.Some(date(2024, 3, 1)),
	}}
	got := ScoreCategory(Risk, &model.PropertyRecord{}, ext, defaultTestConfig())
	assert.Contains(t, got.Rationale, "crime data source: crimegrade as of 2024-03-01")
	assert.Contains(t, got.Rationale, "crime index 30 (moderate)")
}
