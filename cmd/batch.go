package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/batch"
	"github.com/sells-group/taxdeed-cli/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score and rank a whole property list",
	Long:  "Scores every property in parallel, ranks them by total score and optionally compares each against a baseline parcel. Invalid properties are listed with the reason they were skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency > 0 {
			cfg.Batch.Concurrency = concurrency
		}
		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		inputs, rowSkips, err := readInputs(cmd)
		if err != nil {
			return err
		}

		runner := batch.New(engine, cfg.Batch.Concurrency)
		rep, err := runner.ScoreAll(ctx, inputs)
		if err != nil {
			return eris.Wrap(err, "batch")
		}
		rep.Skipped = append(rowSkips, rep.Skipped...)
		ranked := batch.Rank(rep.Results)

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := saveScores(ctx, ranked); err != nil {
				return err
			}
		}

		console := report.NewConsole(cmd.OutOrStdout())
		console.Batch(ranked, rep.Skipped)

		if id := mustString(cmd, "baseline"); id != "" {
			baseline, ok := batch.Find(rep.Results, id)
			if !ok {
				return eris.Errorf("batch: baseline %q was not scored", id)
			}
			comparisons, err := runner.CompareToBaseline(ctx, baseline, ranked)
			if err != nil {
				return eris.Wrap(err, "batch: baseline")
			}
			console.Baseline(baseline, comparisons)
		}

		if path := mustString(cmd, "output"); path != "" {
			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut() //nolint:errcheck
			if err := report.WriteScoresXLSX(out, ranked, rep.Skipped); err != nil {
				return err
			}
			if err := closeOut(); err != nil {
				return eris.Wrapf(err, "close %s", path)
			}
			zap.L().Info("wrote batch workbook", zap.String("path", path))
		}
		return nil
	},
}

func init() {
	addInputFlags(batchCmd)
	batchCmd.Flags().Int("concurrency", 0, "parallel scoring workers (default batch.concurrency)")
	batchCmd.Flags().String("baseline", "", "compare every property against this parcel id")
	batchCmd.Flags().String("output", "", "also write the ranked scores to this XLSX workbook")
	batchCmd.Flags().Bool("save", false, "persist results to the history store")
	rootCmd.AddCommand(batchCmd)
}
