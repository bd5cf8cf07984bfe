// Package ingest reads tax-sale property lists (CSV, XLSX or JSON) into
// scoring inputs. Header names are matched loosely; malformed rows are
// reported and skipped, never fatal.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

// RowError describes a skipped input row. For tabular files Row is the
// 1-based record number, header included, with blank CSV lines not counted.
// For JSON it is the element position.
type RowError struct {
	Row    int    `json:"row" yaml:"row"`
	Reason string `json:"reason" yaml:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Result holds the inputs read from one file plus the rows that were skipped.
type Result struct {
	Inputs   []model.PropertyInput
	Skipped  []RowError
	Unmapped []string // header cells that matched no column
}

// Options tune tabular reading.
type Options struct {
	// DefaultState and DefaultCounty fill identity columns that single-county
	// sale lists leave out.
	DefaultState  string
	DefaultCounty string
	Delimiter     rune   // CSV only; default ','
	Sheet         string // XLSX only; default first sheet
}

// ReadFile dispatches on the file extension: .csv, .tsv, .xlsx or .json.
func ReadFile(ctx context.Context, path string, opts Options) (*Result, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv":
		f, err := os.Open(path) //nolint:gosec // path comes from the CLI flag
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		if ext == ".tsv" && opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		return ReadCSV(ctx, f, opts)
	case ".xlsx":
		return ReadXLSX(ctx, path, opts)
	case ".json":
		f, err := os.Open(path) //nolint:gosec // path comes from the CLI flag
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return ReadJSON(ctx, f)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", ext)
	}
}

// ReadCSV reads a CSV property list with a header row.
func ReadCSV(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	rows, errs := StreamCSV(ctx, r, opts.Delimiter)
	return collectRows(rows, errs, opts)
}

// ReadXLSX reads a property list from a worksheet with a header row.
func ReadXLSX(ctx context.Context, path string, opts Options) (*Result, error) {
	rows, errs := StreamXLSX(ctx, path, opts.Sheet)
	return collectRows(rows, errs, opts)
}

// ReadJSON reads an array of {"property": {...}, "signals": {...}} objects.
// An element that does not decode is skipped; Row is its 1-based position
// in the array.
func ReadJSON(ctx context.Context, r io.Reader) (*Result, error) {
	items, errs := DecodeJSONArray[json.RawMessage](ctx, r)
	res := &Result{}
	n := 0
	for raw := range items {
		n++
		var in model.PropertyInput
		if err := json.Unmarshal(raw, &in); err != nil {
			zap.L().Warn("ingest: skipping element", zap.Int("row", n), zap.Error(err))
			res.Skipped = append(res.Skipped, RowError{Row: n, Reason: err.Error()})
			continue
		}
		res.Inputs = append(res.Inputs, in)
	}
	if err := <-errs; err != nil {
		return nil, eris.Wrap(err, "ingest: read json")
	}
	zap.L().Info("ingest: read properties",
		zap.String("format", "json"),
		zap.Int("properties", len(res.Inputs)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

func collectRows(rows <-chan []string, errs <-chan error, opts Options) (*Result, error) {
	res := &Result{}
	var header Header
	n := 0
	for row := range rows {
		n++
		if header == nil {
			if allBlank(row) {
				continue
			}
			header, res.Unmapped = ParseHeader(row)
			if _, ok := header[FieldParcelID]; !ok {
				// Drain so the reader goroutine can exit.
				for range rows {
				}
				return nil, eris.Errorf("ingest: no parcel id column in header %q", strings.Join(row, ","))
			}
			continue
		}
		if allBlank(row) {
			continue
		}

		in, err := RecordFromRow(header, row, opts)
		if err != nil {
			if !errors.Is(err, ErrHeaderLikeParcel) {
				zap.L().Warn("ingest: skipping row", zap.Int("row", n), zap.Error(err))
			}
			res.Skipped = append(res.Skipped, RowError{Row: n, Reason: err.Error()})
			continue
		}
		res.Inputs = append(res.Inputs, in)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	if header == nil {
		return nil, eris.New("ingest: no header row")
	}

	zap.L().Info("ingest: read properties",
		zap.Int("properties", len(res.Inputs)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Strings("unmapped_columns", res.Unmapped),
	)
	return res, nil
}

func allBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// RecordFromRow converts one data row. Blank cells leave the field absent;
// unparseable cells fail the row.
func RecordFromRow(h Header, row []string, opts Options) (model.PropertyInput, error) {
	var (
		p     model.PropertyRecord
		ext   model.ExternalSignals
		first error
	)
	fail := func(err error) {
		if first == nil && err != nil {
			first = err
		}
	}
	money := func(f Field) model.Opt[float64] {
		v, ok, err := ParseMoney(h.Get(row, f))
		fail(wrapField(err, f))
		if !ok {
			return model.None[float64]()
		}
		return model.Some(v)
	}
	number := func(f Field) model.Opt[float64] {
		v, ok, err := ParseNumber(h.Get(row, f))
		fail(wrapField(err, f))
		if !ok {
			return model.None[float64]()
		}
		return model.Some(v)
	}
	whole := func(f Field) model.Opt[int] {
		v, ok, err := ParseInt(h.Get(row, f))
		fail(wrapField(err, f))
		if !ok {
			return model.None[int]()
		}
		return model.Some(v)
	}

	parcel, err := CleanParcelID(h.Get(row, FieldParcelID))
	if err != nil {
		return model.PropertyInput{}, err
	}
	p.ParcelID = parcel
	p.Address = h.Get(row, FieldAddress)
	p.City = h.Get(row, FieldCity)
	p.County = firstNonEmpty(h.Get(row, FieldCounty), opts.DefaultCounty)
	p.State = strings.ToUpper(firstNonEmpty(h.Get(row, FieldState), opts.DefaultState))

	p.TotalDue = money(FieldTotalDue)
	p.AssessedValue = money(FieldAssessedValue)
	p.MarketValue = money(FieldMarketValue)
	p.SaleType = model.SaleType(strings.ToLower(strings.ReplaceAll(h.Get(row, FieldSaleType), " ", "_")))
	if d, ok, err := ParseDate(h.Get(row, FieldSaleDate)); err != nil {
		fail(wrapField(err, FieldSaleDate))
	} else if ok {
		p.SaleDate = model.Some(d)
	}
	p.TaxYear = whole(FieldTaxYear)

	p.LotSizeAcres = number(FieldLotSizeAcres)
	p.BuildingSqft = number(FieldBuildingSqft)
	p.YearBuilt = whole(FieldYearBuilt)
	p.Bedrooms = whole(FieldBedrooms)
	p.Bathrooms = number(FieldBathrooms)
	if v, ok, err := ParseBool(h.Get(row, FieldLandlocked)); err != nil {
		fail(wrapField(err, FieldLandlocked))
	} else if ok {
		p.Landlocked = model.Some(v)
	} else if v, ok, err := ParseBool(h.Get(row, FieldRoadAccess)); err != nil {
		fail(wrapField(err, FieldRoadAccess))
	} else if ok {
		p.Landlocked = model.Some(!v)
	}

	p.PropertyType = h.Get(row, FieldPropertyType)
	p.Zoning = h.Get(row, FieldZoning)
	p.LandUse = h.Get(row, FieldLandUse)
	p.PipelineStage = h.Get(row, FieldPipelineStage)
	p.ValidationStatus = model.ParseValidationStatus(h.Get(row, FieldValidationStatus))

	ext.WalkScore = number(FieldWalkScore)
	ext.TransitScore = number(FieldTransitScore)
	ext.BikeScore = number(FieldBikeScore)
	ext.Crime.Index = number(FieldCrimeIndex)
	ext.Crime.ViolentRate = number(FieldViolentCrimeRate)
	ext.Crime.PropertyRate = number(FieldPropertyCrimeRate)
	ext.Crime.Source = h.Get(row, FieldCrimeSource)
	if d, ok, err := ParseDate(h.Get(row, FieldCrimeAsOf)); err != nil {
		fail(wrapField(err, FieldCrimeAsOf))
	} else if ok {
		ext.Crime.AsOf = model.Some(d)
	}
	ext.Schools.Overall = number(FieldSchoolRating)
	ext.Schools.Elementary = number(FieldElementaryRating)
	ext.Schools.Middle = number(FieldMiddleRating)
	ext.Schools.High = number(FieldHighRating)
	ext.Schools.Source = h.Get(row, FieldSchoolSource)

	if first != nil {
		return model.PropertyInput{}, first
	}

	in := model.PropertyInput{Property: p}
	if hasSignals(&ext) {
		in.Signals = &ext
	}
	return in, nil
}

func hasSignals(ext *model.ExternalSignals) bool {
	return ext.HasLocation() || ext.Crime.Index.Present() || ext.Crime.ViolentRate.Present() ||
		ext.Crime.PropertyRate.Present() || ext.Schools.Rating().Present()
}

func wrapField(err error, f Field) error {
	if err == nil {
		return nil
	}
	return eris.Wrapf(err, "ingest: column %s", f)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
