package report

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// WriteScoresCSV writes one row per result under a header row.
func WriteScoresCSV(w io.Writer, results []*scorer.ScoreResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scoreHeader()); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, r := range results {
		if err := cw.Write(scoreRecord(r)); err != nil {
			return eris.Wrapf(err, "report: write csv row %s", r.ParcelID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}
