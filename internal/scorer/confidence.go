package scorer

import (
	"math"
	"strings"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

// keyField is one entry of the completeness checklist.
type keyField struct {
	name    string
	present func(p *model.PropertyRecord, ext *model.ExternalSignals) bool
}

var keyFields = []keyField{
	{"parcel_id", func(p *model.PropertyRecord, _ *model.ExternalSignals) bool { return nonEmpty(p.ParcelID) }},
	{"address", func(p *model.PropertyRecord, _ *model.ExternalSignals) bool { return nonEmpty(p.Address) }},
	{"county", func(p *model.PropertyRecord, _ *model.ExternalSignals) bool { return nonEmpty(p.County) }},
	{"state", func(p *model.PropertyRecord, _ *model.ExternalSignals) bool { return nonEmpty(p.State) }},
	{"total_due", func(p *model.PropertyRecord, _ *model.ExternalSignals) bool { return p.TotalDue.Present() }},
	{"assessed_value", func(p *model.PropertyRecord, _ *model.ExternalSignals) bool { return p.AssessedValue.Present() }},
	{"market_value", func(p *model.PropertyRecord, _ *model.ExternalSignals) bool { return p.MarketValue.Present() }},
	{"location_signal", func(_ *model.PropertyRecord, ext *model.ExternalSignals) bool { return ext.HasLocation() }},
	{"risk_signal", func(_ *model.PropertyRecord, ext *model.ExternalSignals) bool { return ext != nil && ext.Crime.HasData() }},
	{"school_rating", func(_ *model.PropertyRecord, ext *model.ExternalSignals) bool {
		return ext != nil && ext.Schools.Rating().Present()
	}},
}

// KeyFieldCount is the size of the completeness checklist.
var KeyFieldCount = len(keyFields)

// Confidence returns the rounded percentage of key fields present (0-100)
// and the names of the missing ones in checklist order. ext may be nil.
//
// This is a data-completeness measure, not a statistical confidence
// interval. It says nothing about the accuracy of the fields present.
func Confidence(p *model.PropertyRecord, ext *model.ExternalSignals) (level int, missing []string) {
	present := 0
	for _, f := range keyFields {
		if f.present(p, ext) {
			present++
		} else {
			missing = append(missing, f.name)
		}
	}
	level = int(math.Round(100 * float64(present) / float64(len(keyFields))))
	return level, missing
}

// Confidence labels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ConfidenceLabel buckets a confidence level: high above 80, medium above
// 50, low otherwise.
func ConfidenceLabel(level int) string {
	switch {
	case level > 80:
		return ConfidenceHigh
	case level > 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func nonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
