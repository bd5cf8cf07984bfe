package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/taxdeed-cli/internal/report"
	"github.com/sells-group/taxdeed-cli/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved scores and comparisons",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		kind := store.Kind(mustString(cmd, "kind"))
		switch kind {
		case "", store.KindScore, store.KindComparison:
		default:
			return eris.Errorf("history: unknown kind %q (want score or comparison)", kind)
		}
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		entries, err := st.List(ctx, store.ListFilter{
			Kind:        kind,
			PropertyKey: mustString(cmd, "property"),
			Limit:       limit,
		})
		if err != nil {
			return eris.Wrap(err, "history")
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No history found.")
			return nil
		}

		return report.WriteHistory(cmd.OutOrStdout(), entries)
	},
}

// -- history show --

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved score or comparison",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		format, err := report.ParseFormat(mustString(cmd, "format"), report.FormatConsole, report.FormatJSON, report.FormatYAML)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.Get(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "history show")
		}

		out := cmd.OutOrStdout()
		switch rec.Kind {
		case store.KindComparison:
			res, err := rec.ComparisonResult()
			if err != nil {
				return err
			}
			return renderComparison(out, format, res)
		default:
			res, err := rec.ScoreResult()
			if err != nil {
				return err
			}
			switch format {
			case report.FormatJSON:
				return report.WriteJSON(out, res)
			case report.FormatYAML:
				return report.WriteYAML(out, res)
			default:
				report.NewConsole(out).Score(res)
				return nil
			}
		}
	},
}

// -- history delete --

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved score or comparison",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Delete(ctx, args[0]); err != nil {
			return eris.Wrap(err, "history delete")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.Flags().String("kind", "", "only list this kind: score or comparison")
	historyCmd.Flags().String("property", "", "only list records for this property key (STATE/COUNTY/PARCEL)")
	historyCmd.Flags().Int("limit", 50, "maximum records to list")

	historyShowCmd.Flags().String("format", string(report.FormatConsole), "output format: console, json or yaml")

	historyCmd.AddCommand(historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
