package scorer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

func TestConfidence(t *testing.T) {
	full := func() (*model.PropertyRecord, *model.ExternalSignals) {
		p, ext := propertyOne()
		p.AssessedValue = model.Some(180000.0)
		return p, ext
	}

	t.Run("complete", func(t *testing.T) {
		p, ext := full()
		level, missing := Confidence(p, ext)
		assert.Equal(t, 100, level)
		assert.Empty(t, missing)
	})

	t.Run("no signals", func(t *testing.T) {
		p, _ := full()
		level, missing := Confidence(p, nil)
		assert.Equal(t, 70, level)
		assert.Equal(t, []string{"location_signal", "risk_signal", "school_rating"}, missing)
	})

	t.Run("derived crime counts as risk signal", func(t *testing.T) {
		p, _ := full()
		ext := &model.ExternalSignals{Crime: model.CrimeSignals{
			ViolentRate:  model.Some(200.0),
			PropertyRate: model.Some(900.0),
		}}
		_, missing := Confidence(p, ext)
		assert.NotContains(t, missing, "risk_signal")
	})

	t.Run("identity only", func(t *testing.T) {
		p := &model.PropertyRecord{ParcelID: "1", County: "Erie", State: "PA"}
		level, missing := Confidence(p, &model.ExternalSignals{})
		assert.Equal(t, 30, level)
		assert.Len(t, missing, 7)
	})

	t.Run("blank address is missing", func(t *testing.T) {
		p, ext := full()
		p.Address = "   "
		level, missing := Confidence(p, ext)
		assert.Equal(t, 90, level)
		assert.Equal(t, []string{"address"}, missing)
	})
}

func TestConfidenceLabel(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{100, ConfidenceHigh},
		{90, ConfidenceHigh},
		{80, ConfidenceMedium},
		{60, ConfidenceMedium},
		{50, ConfidenceLow},
		{0, ConfidenceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceLabel(tt.level), "level %d", tt.level)
	}
}

// genPresence yields one bool per key field, deciding which are populated.
func genPresence() gopter.Gen {
	return gen.SliceOfN(KeyFieldCount, gen.Bool())
}

func buildInput(present []bool) (*model.PropertyRecord, *model.ExternalSignals) {
	p := &model.PropertyRecord{}
	ext := &model.ExternalSignals{}
	setters := []func(){
		func() { p.ParcelID = "1" },
		func() { p.Address = "1 Main St" },
		func() { p.County = "Erie" },
		func() { p.State = "PA" },
		func() { p.TotalDue = model.Some(100.0) },
		func() { p.AssessedValue = model.Some(1000.0) },
		func() { p.MarketValue = model.Some(2000.0) },
		func() { ext.TransitScore = model.Some(40.0) },
		func() { ext.Crime.Index = model.Some(40.0) },
		func() { ext.Schools.Middle = model.Some(4.0) },
	}
	for i, set := range setters {
		if present[i] {
			set()
		}
	}
	return p, ext
}

func TestConfidenceMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("adding a key field never lowers confidence", prop.ForAll(
		func(present []bool, idx int) bool {
			before, _ := Confidence(buildInput(present))

			more := append([]bool(nil), present...)
			more[idx] = true
			after, _ := Confidence(buildInput(more))
			return after >= before
		},
		genPresence(),
		gen.IntRange(0, KeyFieldCount-1),
	))

	properties.Property("missing fields and level agree", prop.ForAll(
		func(present []bool) bool {
			level, missing := Confidence(buildInput(present))
			n := 0
			for _, ok := range present {
				if ok {
					n++
				}
			}
			return len(missing) == KeyFieldCount-n && level == n*100/KeyFieldCount
		},
		genPresence(),
	))

	properties.TestingRun(t)
}
