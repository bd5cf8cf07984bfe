package scorer

import (
	"math"
	"strings"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

// ValidateInput rejects inputs that cannot be scored at all: no identity,
// malformed money, or signals outside their declared ranges. Absent optional
// fields are never an error.
func ValidateInput(p *model.PropertyRecord, ext *model.ExternalSignals) error {
	if p == nil {
		return &ValidationError{Field: "property", Reason: "is required"}
	}
	invalid := func(field, reason string) error {
		return &ValidationError{PropertyID: strings.TrimSpace(p.ParcelID), Field: field, Reason: reason}
	}

	for _, f := range []struct {
		name, value string
	}{
		{"parcel_id", p.ParcelID},
		{"county", p.County},
		{"state", p.State},
	} {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, "is required")
		}
	}

	for _, f := range []struct {
		name  string
		value model.Opt[float64]
	}{
		{"total_due", p.TotalDue},
		{"assessed_value", p.AssessedValue},
		{"market_value", p.MarketValue},
		{"lot_size_acres", p.LotSizeAcres},
		{"building_sqft", p.BuildingSqft},
		{"bathrooms", p.Bathrooms},
	} {
		if v, ok := f.value.Get(); ok && !finiteNonNegative(v) {
			return invalid(f.name, "must be a finite non-negative number")
		}
	}
	if v, ok := p.Bedrooms.Get(); ok && v < 0 {
		return invalid("bedrooms", "must be non-negative")
	}

	if ext == nil {
		return nil
	}
	for _, f := range []struct {
		name  string
		value model.Opt[float64]
		max   float64
	}{
		{"walk_score", ext.WalkScore, 100},
		{"transit_score", ext.TransitScore, 100},
		{"bike_score", ext.BikeScore, 100},
		{"crime.index", ext.Crime.Index, 100},
		{"schools.overall", ext.Schools.Overall, 10},
		{"schools.elementary", ext.Schools.Elementary, 10},
		{"schools.middle", ext.Schools.Middle, 10},
		{"schools.high", ext.Schools.High, 10},
	} {
		if v, ok := f.value.Get(); ok && (!finiteNonNegative(v) || v > f.max) {
			return invalid(f.name, "is out of range")
		}
	}
	for _, f := range []struct {
		name  string
		value model.Opt[float64]
	}{
		{"crime.violent_rate", ext.Crime.ViolentRate},
		{"crime.property_rate", ext.Crime.PropertyRate},
	} {
		if v, ok := f.value.Get(); ok && !finiteNonNegative(v) {
			return invalid(f.name, "must be a finite non-negative rate")
		}
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
