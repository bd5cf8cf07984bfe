package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/report"
)

var compareFormats = []report.Format{report.FormatConsole, report.FormatJSON, report.FormatYAML}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two properties side by side",
	Long:  "Scores two parcels from the input file and explains which is the better investment, category by category.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, err := report.ParseFormat(mustString(cmd, "format"), compareFormats...)
		if err != nil {
			return err
		}

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		inputs, _, err := readInputs(cmd)
		if err != nil {
			return err
		}
		a, err := findInput(inputs, mustString(cmd, "a"))
		if err != nil {
			return err
		}
		b, err := findInput(inputs, mustString(cmd, "b"))
		if err != nil {
			return err
		}

		res, err := engine.CompareProperties(&a.Property, &b.Property, a.Signals, b.Signals)
		if err != nil {
			return err
		}
		zap.L().Info("compared properties",
			zap.String("property1", res.Property1.ParcelID),
			zap.String("property2", res.Property2.ParcelID),
			zap.String("verdict", string(res.Recommendation.Verdict)),
			zap.Float64("differential", res.TotalDifferential),
		)

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := saveComparison(ctx, res); err != nil {
				return err
			}
		}

		return renderComparison(cmd.OutOrStdout(), format, res)
	},
}

func renderComparison(out io.Writer, format report.Format, res *compare.ComparisonResult) error {
	switch format {
	case report.FormatJSON:
		return report.WriteJSON(out, res)
	case report.FormatYAML:
		return report.WriteYAML(out, res)
	default:
		report.NewConsole(out).Comparison(res)
		return nil
	}
}

func saveComparison(ctx context.Context, res *compare.ComparisonResult) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	entry, err := st.SaveComparison(ctx, res)
	if err != nil {
		return eris.Wrap(err, "save comparison")
	}
	zap.L().Info("saved comparison", zap.String("id", entry.ID), zap.String("subject", entry.Subject))
	return nil
}

func init() {
	addInputFlags(compareCmd)
	compareCmd.Flags().String("a", "", "parcel id of property 1")
	compareCmd.Flags().String("b", "", "parcel id of property 2")
	compareCmd.Flags().String("format", string(report.FormatConsole), "output format: console, json or yaml")
	compareCmd.Flags().Bool("save", false, "persist the comparison to the history store")
	_ = compareCmd.MarkFlagRequired("a")
	_ = compareCmd.MarkFlagRequired("b")
	rootCmd.AddCommand(compareCmd)
}
