package report

import (
	"strconv"
	"strings"

	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// scoreHeader mirrors the persisted score row: identity, overall score and
// grade, then one column per category.
func scoreHeader() []string {
	h := []string{"parcel_id", "address", "county", "state", "total_score", "grade"}
	for _, c := range scorer.Categories {
		h = append(h, c.String())
	}
	return append(h, "confidence", "confidence_label", "missing_fields")
}

func scoreRecord(r *scorer.ScoreResult) []string {
	rec := []string{
		r.ParcelID,
		r.Address,
		r.County,
		r.State,
		formatScore(r.TotalScore, 2),
		r.Grade.Label,
	}
	for _, c := range scorer.Categories {
		rec = append(rec, formatScore(r.Categories[c].Score, 1))
	}
	return append(rec,
		strconv.Itoa(r.ConfidenceLevel),
		r.ConfidenceLabel,
		strings.Join(r.MissingFields, ";"),
	)
}

func formatScore(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
