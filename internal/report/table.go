package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taxdeed-cli/internal/batch"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
	"github.com/sells-group/taxdeed-cli/internal/store"
)

// WriteScoreTable writes a plain tabular list of results to out.
func WriteScoreTable(out io.Writer, results []*scorer.ScoreResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PARCEL\tADDRESS\tTOTAL\tGRADE\tLOC\tRISK\tFIN\tMKT\tPROFIT\tCONF")
	_, _ = fmt.Fprintln(w, "------\t-------\t-----\t-----\t---\t----\t---\t---\t------\t----")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%d%%\n",
			r.ParcelID,
			truncate(r.Address, 30),
			r.TotalScore,
			r.Grade.Label,
			r.Categories[scorer.Location].Score,
			r.Categories[scorer.Risk].Score,
			r.Categories[scorer.Financial].Score,
			r.Categories[scorer.Market].Score,
			r.Categories[scorer.Profit].Score,
			r.ConfidenceLevel,
		)
	}
	return eris.Wrap(w.Flush(), "report: write score table")
}

// WriteSkips lists properties that were skipped with their reasons.
func WriteSkips(out io.Writer, skips []batch.Skip) error {
	if len(skips) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SKIPPED\tPARCEL\tREASON")
	for _, s := range skips {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.Position(), s.ParcelID, s.Reason)
	}
	return eris.Wrap(w.Flush(), "report: write skips")
}

// WriteHistory writes a tabular list of stored records to out.
func WriteHistory(out io.Writer, entries []store.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tSUBJECT\tSUMMARY\tSCORE\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t-------\t-----\t-------")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			truncateID(e.ID),
			e.Kind,
			truncate(e.Subject, 48),
			e.Summary,
			e.Score,
			e.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return eris.Wrap(w.Flush(), "report: write history")
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
