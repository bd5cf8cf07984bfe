package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/taxdeed-cli/internal/report"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective scoring table and its hash",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sc, err := scoringConfig(cmd)
		if err != nil {
			return err
		}
		if err := scorer.ValidateConfig(sc); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# config_hash: %s\n", scorer.ConfigHash(sc))
		return report.WriteYAML(out, sc)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
