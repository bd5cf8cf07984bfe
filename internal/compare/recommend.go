package compare

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// sideLabel is the human name of a side, e.g. "Property 1 (101 Main St)".
func sideLabel(r *ComparisonResult, w Winner) string {
	n := 1
	if w == WinnerProperty2 {
		n = 2
	}
	return fmt.Sprintf("Property %d (%s)", n, r.Ref(w).Name())
}

// recommend derives the verdict and strength from the overall winner and
// magnitude, caps strength when the winner loses most categories, and lowers
// it when the underlying data is thin.
func recommend(r *ComparisonResult, cc config.ComparisonConfig) Recommendation {
	w := r.OverallWinner
	if w == WinnerTie || r.OverallMagnitude == MagnitudeNegligible {
		return Recommendation{
			Verdict:  VerdictComparable,
			Strength: StrengthWeak,
			Summary: fmt.Sprintf("The properties are comparable: overall scores differ by %.2f points (%.2f vs %.2f).",
				math.Abs(r.TotalDifferential), r.Property1.TotalScore, r.Property2.TotalScore),
			Reasons: []string{},
		}
	}

	rec := Recommendation{Verdict: VerdictPreferProperty1, Strength: StrengthStrong}
	if w == WinnerProperty2 {
		rec.Verdict = VerdictPreferProperty2
	}
	if r.OverallMagnitude == MagnitudeModerate {
		rec.Strength = StrengthModerate
	}
	losses := r.CategorySummary.Wins(w.Flip())
	if 2*losses > scorer.NumCategories && rec.Strength == StrengthStrong {
		rec.Strength = StrengthModerate
	}
	if float64(r.ComparisonConfidence) < cc.ConfidenceFloor {
		rec.Strength = rec.Strength.weaker()
	}

	winner, loser := r.Ref(w), r.Ref(w.Flip())
	rec.Summary = fmt.Sprintf("%s scores %.2f points higher overall (%.2f vs %.2f, %s difference); %s preference.",
		sideLabel(r, w), math.Abs(r.TotalDifferential), winner.TotalScore, loser.TotalScore,
		r.OverallMagnitude, rec.Strength)
	rec.Reasons = reasons(r)
	return rec
}

// reasons lists, largest gap first, every category that backs the overall
// winner by at least a moderate margin. Each reason quotes the winning
// side's own rationale for that category.
func reasons(r *ComparisonResult) []string {
	w := r.OverallWinner
	var backing []CategoryComparison
	for _, cc := range r.Categories {
		if cc.Winner == w && cc.Magnitude.AtLeast(MagnitudeModerate) {
			backing = append(backing, cc)
		}
	}
	slices.SortStableFunc(backing, func(a, b CategoryComparison) int {
		return cmp.Compare(math.Abs(b.Differential), math.Abs(a.Differential))
	})

	out := make([]string, 0, len(backing))
	for _, cc := range backing {
		reason := fmt.Sprintf("%s: leads by %.1f points (%s)", cc.Category.Title(), math.Abs(cc.Differential), cc.Magnitude)
		if rationale := cc.Side(w).Rationale; len(rationale) > 0 {
			reason += "; " + strings.Join(rationale, "; ")
		}
		out = append(out, reason)
	}
	return out
}

// tradeOffs lists every category the overall loser won or tied.
func tradeOffs(r *ComparisonResult) TradeOffs {
	if r.OverallWinner == WinnerTie {
		return TradeOffs{Items: []TradeOff{}}
	}
	loser := r.OverallWinner.Flip()
	t := TradeOffs{Side: loser, Items: []TradeOff{}}
	for _, cc := range r.Categories {
		var outcome Outcome
		switch cc.Winner {
		case loser:
			outcome = OutcomeWon
		case WinnerTie:
			outcome = OutcomeTied
		default:
			continue
		}
		diff := cc.Differential
		if loser == WinnerProperty2 {
			diff = -diff
		}
		t.Items = append(t.Items, TradeOff{
			Category:     cc.Category,
			Outcome:      outcome,
			Differential: diff,
			Rationale:    cc.Side(loser).Rationale,
		})
	}
	return t
}

// warnings flags thin data and wins carried by few categories.
func warnings(r *ComparisonResult, cc config.ComparisonConfig) []Warning {
	out := []Warning{}
	if float64(r.ComparisonConfidence) < cc.ConfidenceFloor {
		out = append(out, Warning{
			Code: WarningLowConfidence,
			Message: fmt.Sprintf("comparison confidence %d%% is below %.0f%%; key data is missing for at least one property",
				r.ComparisonConfidence, cc.ConfidenceFloor),
		})
	}
	if w := r.OverallWinner; w != WinnerTie {
		if wins := r.CategorySummary.Wins(w); wins <= cc.MinorityWinMax {
			out = append(out, Warning{
				Code: WarningMinorityWins,
				Message: fmt.Sprintf("%s wins overall while winning only %d of %d categories; the result is driven by a few heavily weighted categories",
					sideLabel(r, w), wins, scorer.NumCategories),
			})
		}
	}
	return out
}
