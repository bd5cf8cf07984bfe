package report

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/taxdeed-cli/internal/batch"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// Sheet names used by WriteScoresXLSX.
const (
	ScoresSheet  = "Scores"
	SkippedSheet = "Skipped"
)

// WriteScoresXLSX writes a workbook with a Scores sheet and, when skips is
// non-empty, a Skipped sheet.
func WriteScoresXLSX(w io.Writer, results []*scorer.ScoreResult, skips []batch.Skip) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(ScoresSheet)
	if err != nil {
		return eris.Wrap(err, "report: add scores sheet")
	}
	addStringRow(sheet, scoreHeader())
	for _, r := range results {
		row := sheet.AddRow()
		for i, v := range scoreRecord(r) {
			cell := row.AddCell()
			// Score columns are written as numbers so they sort in a spreadsheet.
			if f, ok := numericColumn(i, v); ok {
				cell.SetFloat(f)
				continue
			}
			cell.SetString(v)
		}
	}

	if len(skips) > 0 {
		skipped, err := file.AddSheet(SkippedSheet)
		if err != nil {
			return eris.Wrap(err, "report: add skipped sheet")
		}
		addStringRow(skipped, []string{"skipped", "parcel_id", "field", "reason"})
		for _, s := range skips {
			row := skipped.AddRow()
			row.AddCell().SetString(s.Position())
			row.AddCell().SetString(s.ParcelID)
			row.AddCell().SetString(s.Field)
			row.AddCell().SetString(s.Reason)
		}
	}

	return eris.Wrap(file.Write(w), "report: write xlsx")
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// numericColumn reports whether column i of a score record holds a number:
// total_score, the category columns and confidence.
func numericColumn(i int, v string) (float64, bool) {
	const firstScore = 4 // total_score
	isScore := i == firstScore || (i > firstScore+1 && i <= firstScore+1+scorer.NumCategories+1)
	if !isScore {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}
