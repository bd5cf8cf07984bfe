package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/batch"
	"github.com/sells-group/taxdeed-cli/internal/model"
	"github.com/sells-group/taxdeed-cli/internal/report"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

var scoreFormats = []report.Format{
	report.FormatTable, report.FormatConsole, report.FormatCSV,
	report.FormatJSON, report.FormatYAML, report.FormatXLSX,
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score properties from a property list",
	Long:  "Scores every property in the input file (or one parcel with --parcel) and renders the results. Invalid properties are reported and skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, err := report.ParseFormat(mustString(cmd, "format"), scoreFormats...)
		if err != nil {
			return err
		}
		if format == report.FormatXLSX && mustString(cmd, "output") == "" {
			return eris.New("score: --output is required for xlsx")
		}

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		inputs, rowSkips, err := readInputs(cmd)
		if err != nil {
			return err
		}
		if parcel := mustString(cmd, "parcel"); parcel != "" {
			in, err := findInput(inputs, parcel)
			if err != nil {
				return err
			}
			inputs = []model.PropertyInput{in}
			rowSkips = rowSkips[:0]
		}

		rep, err := batch.New(engine, cfg.Batch.Concurrency).ScoreAll(ctx, inputs)
		if err != nil {
			return eris.Wrap(err, "score")
		}
		rep.Skipped = append(rowSkips, rep.Skipped...)
		if len(rep.Results) == 0 && len(rep.Skipped) > 0 {
			_ = report.WriteSkips(cmd.ErrOrStderr(), rep.Skipped)
			return eris.Errorf("score: no valid properties (%d skipped)", len(rep.Skipped))
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := saveScores(ctx, rep.Results); err != nil {
				return err
			}
		}

		out, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		if err := renderScores(out, cmd.ErrOrStderr(), format, rep); err != nil {
			return err
		}
		return closeOut()
	},
}

// renderScores writes rep in format to out. Skips go to errOut for the
// formats that have no place for them.
func renderScores(out, errOut io.Writer, format report.Format, rep *batch.ScoreReport) error {
	switch format {
	case report.FormatConsole:
		c := report.NewConsole(out)
		for _, r := range rep.Results {
			c.Score(r)
		}
		return report.WriteSkips(errOut, rep.Skipped)
	case report.FormatCSV:
		if err := report.WriteSkips(errOut, rep.Skipped); err != nil {
			return err
		}
		return report.WriteScoresCSV(out, rep.Results)
	case report.FormatJSON:
		return report.WriteJSON(out, rep)
	case report.FormatYAML:
		return report.WriteYAML(out, rep)
	case report.FormatXLSX:
		return report.WriteScoresXLSX(out, rep.Results, rep.Skipped)
	default:
		if err := report.WriteScoreTable(out, rep.Results); err != nil {
			return err
		}
		return report.WriteSkips(errOut, rep.Skipped)
	}
}

func saveScores(ctx context.Context, results []*scorer.ScoreResult) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	entries, err := st.SaveScores(ctx, results)
	if err != nil {
		return eris.Wrap(err, "save scores")
	}
	for i, e := range entries {
		zap.L().Info("saved score",
			zap.String("id", e.ID),
			zap.String("parcel_id", results[i].ParcelID),
			zap.Float64("score", e.Score),
			zap.String("grade", e.Summary),
		)
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	addInputFlags(scoreCmd)
	scoreCmd.Flags().String("parcel", "", "score only this parcel id")
	scoreCmd.Flags().String("format", string(report.FormatTable), "output format: table, console, csv, json, yaml or xlsx")
	scoreCmd.Flags().String("output", "", "write output to this file instead of stdout (required for xlsx)")
	scoreCmd.Flags().Bool("save", false, "persist results to the history store")
	rootCmd.AddCommand(scoreCmd)
}
