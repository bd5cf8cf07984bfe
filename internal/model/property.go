package model

import (
	"strings"
	"time"
)

// SaleType identifies the kind of tax sale a property is listed in.
type SaleType string

// Sale types seen across county sale lists.
const (
	SaleTypeUpset      SaleType = "upset"
	SaleTypeJudicial   SaleType = "judicial"
	SaleTypeRepository SaleType = "repository"
	SaleTypeTaxDeed    SaleType = "tax_deed"
	SaleTypeTaxLien    SaleType = "tax_lien"
)

// ValidationStatus is the result of the manual/visual validation step of the
// research pipeline. An empty status means the property has not been reviewed.
type ValidationStatus string

// Validation statuses.
const (
	ValidationApproved ValidationStatus = "APPROVED"
	ValidationCaution  ValidationStatus = "CAUTION"
	ValidationReject   ValidationStatus = "REJECT"
)

// ParseValidationStatus normalizes free-form status text. Unknown values map to "".
func ParseValidationStatus(s string) ValidationStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "APPROVED", "APPROVE", "OK":
		return ValidationApproved
	case "CAUTION", "WARN", "WARNING":
		return ValidationCaution
	case "REJECT", "REJECTED":
		return ValidationReject
	default:
		return ""
	}
}

// PropertyRecord is an immutable snapshot of a parcel at scoring time.
// Required identity is ParcelID plus County and State; everything else is
// optional and degrades confidence when absent.
type PropertyRecord struct {
	ID       string `json:"id,omitempty"`
	ParcelID string `json:"parcel_id"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	County   string `json:"county"`
	State    string `json:"state"`

	// Financial facts.
	TotalDue      Opt[float64]   `json:"total_due"`
	AssessedValue Opt[float64]   `json:"assessed_value"`
	MarketValue   Opt[float64]   `json:"market_value"`
	SaleType      SaleType       `json:"sale_type,omitempty"`
	SaleDate      Opt[time.Time] `json:"sale_date"`
	TaxYear       Opt[int]       `json:"tax_year"`

	// Physical facts.
	LotSizeAcres Opt[float64] `json:"lot_size_acres"`
	BuildingSqft Opt[float64] `json:"building_sqft"`
	YearBuilt    Opt[int]     `json:"year_built"`
	Bedrooms     Opt[int]     `json:"bedrooms"`
	Bathrooms    Opt[float64] `json:"bathrooms"`
	Landlocked   Opt[bool]    `json:"landlocked"`

	// Classification facts.
	PropertyType string `json:"property_type,omitempty"`
	Zoning       string `json:"zoning,omitempty"`
	LandUse      string `json:"land_use,omitempty"`

	// Pipeline state.
	PipelineStage    string           `json:"pipeline_stage,omitempty"`
	ValidationStatus ValidationStatus `json:"validation_status,omitempty"`
}

// Key returns a stable identity for the parcel: STATE/COUNTY/PARCEL.
func (p *PropertyRecord) Key() string {
	return strings.ToUpper(strings.TrimSpace(p.State)) + "/" +
		strings.ToUpper(strings.TrimSpace(p.County)) + "/" +
		strings.TrimSpace(p.ParcelID)
}

// DisplayName returns the address when known, otherwise the parcel id.
func (p *PropertyRecord) DisplayName() string {
	if a := strings.TrimSpace(p.Address); a != "" {
		return a
	}
	return p.ParcelID
}

// CrimeSignals holds third-party crime data for the property's area.
type CrimeSignals struct {
	// Index is 0-100, higher meaning more crime.
	Index Opt[float64] `json:"index"`
	// Rates are per 100,000 population.
	ViolentRate  Opt[float64]   `json:"violent_rate"`
	PropertyRate Opt[float64]   `json:"property_rate"`
	Source       string         `json:"source,omitempty"`
	AsOf         Opt[time.Time] `json:"as_of"`
}

// HasData reports whether any usable crime measurement is present.
func (c CrimeSignals) HasData() bool {
	return c.Index.Present() || (c.ViolentRate.Present() && c.PropertyRate.Present())
}

// SchoolSignals holds school ratings on a 0-10 scale.
type SchoolSignals struct {
	Overall    Opt[float64] `json:"overall"`
	Elementary Opt[float64] `json:"elementary"`
	Middle     Opt[float64] `json:"middle"`
	High       Opt[float64] `json:"high"`
	Source     string       `json:"source,omitempty"`
}

// Rating returns the overall rating, or the mean of the per-level ratings
// when only those were collected.
func (s SchoolSignals) Rating() Opt[float64] {
	if s.Overall.Present() {
		return s.Overall
	}
	var sum float64
	var n int
	for _, lvl := range []Opt[float64]{s.Elementary, s.Middle, s.High} {
		if v, ok := lvl.Get(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return None[float64]()
	}
	return Some(sum / float64(n))
}

// ExternalSignals is optional enrichment for one property. Any field may be
// absent, and a nil *ExternalSignals means no enrichment was collected at all.
type ExternalSignals struct {
	WalkScore    Opt[float64]  `json:"walk_score"`
	TransitScore Opt[float64]  `json:"transit_score"`
	BikeScore    Opt[float64]  `json:"bike_score"`
	Crime        CrimeSignals  `json:"crime"`
	Schools      SchoolSignals `json:"schools"`
}

// HasLocation reports whether at least one walk/transit/bike score is present.
func (e *ExternalSignals) HasLocation() bool {
	if e == nil {
		return false
	}
	return e.WalkScore.Present() || e.TransitScore.Present() || e.BikeScore.Present()
}

// PropertyInput pairs a record with its enrichment, the unit read by ingest
// and consumed by batch scoring.
type PropertyInput struct {
	Property PropertyRecord   `json:"property"`
	Signals  *ExternalSignals `json:"signals,omitempty"`
}
