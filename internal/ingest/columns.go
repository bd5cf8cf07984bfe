package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Field is a canonical input column.
type Field string

// Canonical columns. Property columns first, then enrichment signals.
const (
	FieldParcelID         Field = "parcel_id"
	FieldAddress          Field = "address"
	FieldCity             Field = "city"
	FieldCounty           Field = "county"
	FieldState            Field = "state"
	FieldTotalDue         Field = "total_due"
	FieldAssessedValue    Field = "assessed_value"
	FieldMarketValue      Field = "market_value"
	FieldSaleType         Field = "sale_type"
	FieldSaleDate         Field = "sale_date"
	FieldTaxYear          Field = "tax_year"
	FieldLotSizeAcres     Field = "lot_size_acres"
	FieldBuildingSqft     Field = "building_sqft"
	FieldYearBuilt        Field = "year_built"
	FieldBedrooms         Field = "bedrooms"
	FieldBathrooms        Field = "bathrooms"
	FieldLandlocked       Field = "landlocked"
	FieldRoadAccess       Field = "road_access"
	FieldPropertyType     Field = "property_type"
	FieldZoning           Field = "zoning"
	FieldLandUse          Field = "land_use"
	FieldPipelineStage    Field = "pipeline_stage"
	FieldValidationStatus Field = "validation_status"

	FieldWalkScore         Field = "walk_score"
	FieldTransitScore      Field = "transit_score"
	FieldBikeScore         Field = "bike_score"
	FieldCrimeIndex        Field = "crime_index"
	FieldViolentCrimeRate  Field = "violent_crime_rate"
	FieldPropertyCrimeRate Field = "property_crime_rate"
	FieldCrimeSource       Field = "crime_source"
	FieldCrimeAsOf         Field = "crime_as_of"
	FieldSchoolRating      Field = "school_rating"
	FieldElementaryRating  Field = "elementary_rating"
	FieldMiddleRating      Field = "middle_rating"
	FieldHighRating        Field = "high_rating"
	FieldSchoolSource      Field = "school_source"
)

// aliases maps normalized header text to a canonical column. Canonical
// names map to themselves via normalizeHeader.
var aliases = map[string]Field{
	"parcel":              FieldParcelID,
	"parcel number":       FieldParcelID,
	"parcel no":           FieldParcelID,
	"pin":                 FieldParcelID,
	"apn":                 FieldParcelID,
	"map number":          FieldParcelID,
	"control number":      FieldParcelID,
	"property address":    FieldAddress,
	"situs address":       FieldAddress,
	"location":            FieldAddress,
	"municipality":        FieldCity,
	"amount due":          FieldTotalDue,
	"taxes due":           FieldTotalDue,
	"upset price":         FieldTotalDue,
	"opening bid":         FieldTotalDue,
	"minimum bid":         FieldTotalDue,
	"assessed":            FieldAssessedValue,
	"assessment":          FieldAssessedValue,
	"total assessment":    FieldAssessedValue,
	"market":              FieldMarketValue,
	"fair market value":   FieldMarketValue,
	"fmv":                 FieldMarketValue,
	"estimated value":     FieldMarketValue,
	"zestimate":           FieldMarketValue,
	"sale":                FieldSaleType,
	"auction date":        FieldSaleDate,
	"lot size":            FieldLotSizeAcres,
	"acres":               FieldLotSizeAcres,
	"acreage":             FieldLotSizeAcres,
	"sqft":                FieldBuildingSqft,
	"square feet":         FieldBuildingSqft,
	"living area":         FieldBuildingSqft,
	"beds":                FieldBedrooms,
	"baths":               FieldBathrooms,
	"type":                FieldPropertyType,
	"class":               FieldPropertyType,
	"use":                 FieldLandUse,
	"stage":               FieldPipelineStage,
	"status":              FieldValidationStatus,
	"validation":          FieldValidationStatus,
	"walkscore":           FieldWalkScore,
	"transitscore":        FieldTransitScore,
	"bikescore":           FieldBikeScore,
	"crime":               FieldCrimeIndex,
	"crime score":         FieldCrimeIndex,
	"violent crime":       FieldViolentCrimeRate,
	"property crime":      FieldPropertyCrimeRate,
	"schools":             FieldSchoolRating,
	"school":              FieldSchoolRating,
	"greatschools rating": FieldSchoolRating,
	"elementary":          FieldElementaryRating,
	"middle":              FieldMiddleRating,
	"high school":         FieldHighRating,
}

// normalizeHeader folds a header cell to lowercase words separated by single
// spaces: "Parcel_ID " and "PARCEL-ID" both become "parcel id".
func normalizeHeader(s string) string {
	s = norm.NFKC.String(strings.ToLower(s))
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}

// canonical maps a raw header cell to its column, if recognized.
func canonical(header string) (Field, bool) {
	h := normalizeHeader(header)
	if f, ok := aliases[h]; ok {
		return f, true
	}
	f := Field(strings.ReplaceAll(h, " ", "_"))
	if _, ok := knownFields[f]; ok {
		return f, true
	}
	return "", false
}

var knownFields = func() map[Field]struct{} {
	m := map[Field]struct{}{}
	for _, f := range []Field{
		FieldParcelID, FieldAddress, FieldCity, FieldCounty, FieldState,
		FieldTotalDue, FieldAssessedValue, FieldMarketValue, FieldSaleType,
		FieldSaleDate, FieldTaxYear, FieldLotSizeAcres, FieldBuildingSqft,
		FieldYearBuilt, FieldBedrooms, FieldBathrooms, FieldLandlocked,
		FieldRoadAccess, FieldPropertyType, FieldZoning, FieldLandUse,
		FieldPipelineStage, FieldValidationStatus, FieldWalkScore,
		FieldTransitScore, FieldBikeScore, FieldCrimeIndex,
		FieldViolentCrimeRate, FieldPropertyCrimeRate, FieldCrimeSource,
		FieldCrimeAsOf, FieldSchoolRating, FieldElementaryRating,
		FieldMiddleRating, FieldHighRating, FieldSchoolSource,
	} {
		m[f] = struct{}{}
	}
	return m
}()

// Header maps canonical columns to their index in a row.
type Header map[Field]int

// ParseHeader recognizes the columns of a header row. Unrecognized columns
// are returned so callers can report them; the first occurrence of a
// duplicated column wins.
func ParseHeader(row []string) (Header, []string) {
	h := Header{}
	var unknown []string
	for i, cell := range row {
		f, ok := canonical(cell)
		if !ok {
			if cell != "" {
				unknown = append(unknown, cell)
			}
			continue
		}
		if _, dup := h[f]; !dup {
			h[f] = i
		}
	}
	return h, unknown
}

// Get returns the trimmed cell for f, or "" when the column is absent or the
// row is short.
func (h Header) Get(row []string, f Field) string {
	i, ok := h[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
