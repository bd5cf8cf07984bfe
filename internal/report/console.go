package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/taxdeed-cli/internal/batch"
	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// consoleStyles holds the lipgloss styles used by Console.
type consoleStyles struct {
	header  lipgloss.Style
	gradeA  lipgloss.Style
	gradeB  lipgloss.Style
	gradeC  lipgloss.Style
	gradeDF lipgloss.Style
	winner  lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
}

func newConsoleStyles(r *lipgloss.Renderer) consoleStyles {
	return consoleStyles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		gradeA:  r.NewStyle().Foreground(lipgloss.Color("10")),
		gradeB:  r.NewStyle().Foreground(lipgloss.Color("12")),
		gradeC:  r.NewStyle().Foreground(lipgloss.Color("3")),
		gradeDF: r.NewStyle().Foreground(lipgloss.Color("9")),
		winner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Console renders results for a terminal. Colors are dropped when out is not
// a terminal.
type Console struct {
	out    io.Writer
	styles consoleStyles
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, styles: newConsoleStyles(lipgloss.NewRenderer(out))}
}

func (c *Console) gradeStyle(letter string) lipgloss.Style {
	switch letter {
	case "A":
		return c.styles.gradeA
	case "B":
		return c.styles.gradeB
	case "C":
		return c.styles.gradeC
	default:
		return c.styles.gradeDF
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Score renders one ScoreResult with per-category rationale.
func (c *Console) Score(r *scorer.ScoreResult) {
	c.printf("%s\n", c.styles.header.Render(r.DisplayName()))
	c.printf("  %s, %s  parcel %s\n", r.County, r.State, r.ParcelID)
	c.printf("  Score %.2f  Grade %s  Confidence %d%% (%s)\n",
		r.TotalScore, c.gradeStyle(r.Grade.Letter).Render(r.Grade.Label), r.ConfidenceLevel, r.ConfidenceLabel)
	if len(r.MissingFields) > 0 {
		c.printf("  %s\n", c.styles.dim.Render("missing: "+strings.Join(r.MissingFields, ", ")))
	}
	c.printf("\n")
	for _, cat := range scorer.Categories {
		cs := r.Categories[cat]
		c.printf("  %-10s %5.1f\n", cat.Title(), cs.Score)
		for _, line := range cs.Rationale {
			c.printf("    %s\n", c.styles.dim.Render("- "+line))
		}
	}
	c.printf("\n")
}

// Comparison renders a ComparisonResult: side-by-side categories, the
// recommendation, trade-offs and warnings.
func (c *Console) Comparison(r *compare.ComparisonResult) {
	c.printf("%s\n", c.styles.header.Render(fmt.Sprintf("%s vs %s", r.Property1.Name(), r.Property2.Name())))
	c.printf("  Property 1: %.2f %s   Property 2: %.2f %s\n",
		r.Property1.TotalScore, c.gradeStyle(r.Property1.Grade.Letter).Render(r.Property1.Grade.Label),
		r.Property2.TotalScore, c.gradeStyle(r.Property2.Grade.Letter).Render(r.Property2.Grade.Label))
	c.printf("\n  %-10s %7s %7s %7s  %-12s %s\n", "CATEGORY", "P1", "P2", "DIFF", "MAGNITUDE", "WINNER")
	for _, cc := range r.Categories {
		c.printf("  %-10s %7.1f %7.1f %+7.1f  %-12s %s\n",
			cc.Category.Title(), cc.Property1.Score, cc.Property2.Score, cc.Differential, cc.Magnitude, c.winnerLabel(cc.Winner))
	}
	c.printf("  %-10s %7.2f %7.2f %+7.2f  %-12s %s\n",
		"Overall", r.Property1.TotalScore, r.Property2.TotalScore, r.TotalDifferential, r.OverallMagnitude, c.winnerLabel(r.OverallWinner))
	c.printf("  %s\n\n", c.styles.dim.Render(fmt.Sprintf("categories won: %d / %d, ties %d; confidence %d%%",
		r.CategorySummary.Property1Wins, r.CategorySummary.Property2Wins, r.CategorySummary.Ties, r.ComparisonConfidence)))

	rec := r.Recommendation
	c.printf("  %s (%s)\n", c.styles.winner.Render(string(rec.Verdict)), rec.Strength)
	c.printf("  %s\n", rec.Summary)
	for _, reason := range rec.Reasons {
		c.printf("    + %s\n", reason)
	}

	if len(r.TradeOffs.Items) > 0 {
		c.printf("\n  Trade-offs for %s:\n", r.Ref(r.TradeOffs.Side).Name())
		for _, t := range r.TradeOffs.Items {
			c.printf("    %s %s (%+.1f)\n", t.Category.Title(), t.Outcome, t.Differential)
		}
	}

	for _, w := range r.Warnings {
		c.printf("  %s\n", c.styles.warn.Render("! "+w.Message))
	}
	c.printf("\n")
}

func (c *Console) winnerLabel(w compare.Winner) string {
	switch w {
	case compare.WinnerProperty1:
		return c.styles.winner.Render("P1")
	case compare.WinnerProperty2:
		return c.styles.winner.Render("P2")
	default:
		return c.styles.dim.Render("tie")
	}
}

// Batch renders a ranked batch: one line per scored property and one line per
// skipped property with its reason.
func (c *Console) Batch(ranked []*scorer.ScoreResult, skips []batch.Skip) {
	c.printf("%s\n", c.styles.header.Render(fmt.Sprintf("%d scored, %d skipped", len(ranked), len(skips))))
	for i, r := range ranked {
		c.printf("  %3d. %6.2f %s  %s\n", i+1, r.TotalScore, c.gradeStyle(r.Grade.Letter).Render(fmt.Sprintf("%-2s", r.Grade.Label)), r.DisplayName())
	}
	for _, s := range skips {
		label := "skipped " + s.Position()
		if s.ParcelID != "" {
			label += " (" + s.ParcelID + ")"
		}
		c.printf("  %s\n", c.styles.warn.Render(label+": "+s.Reason))
	}
}

// Baseline renders comparisons of many properties against one baseline.
func (c *Console) Baseline(baseline *scorer.ScoreResult, comparisons []*compare.ComparisonResult) {
	c.printf("\n%s\n", c.styles.header.Render("Against baseline "+baseline.DisplayName()))
	for _, r := range comparisons {
		c.printf("  %+7.2f  %-12s %-18s %s\n",
			-r.TotalDifferential, r.OverallMagnitude, r.Recommendation.Verdict, r.Property2.Name())
	}
}
