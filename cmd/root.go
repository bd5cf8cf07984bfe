package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
	"github.com/sells-group/taxdeed-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "taxdeed",
	Short: "Tax-deed property scoring and comparison",
	Long:  "Scores tax-deed auction properties across location, risk, financial, market and profit categories, compares them side by side and keeps a history of results.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("profile", "", "scoring profile YAML overriding the configured scoring table")
}

// scoringConfig returns the configured scoring table with the --profile
// overrides applied.
func scoringConfig(cmd *cobra.Command) (config.ScoringConfig, error) {
	base := cfg.Scoring
	path, _ := cmd.Flags().GetString("profile")
	if path == "" {
		return base, nil
	}
	sc, err := scorer.LoadProfile(path, base)
	if err != nil {
		return config.ScoringConfig{}, err
	}
	zap.L().Info("loaded scoring profile", zap.String("path", path), zap.String("config_hash", scorer.ConfigHash(sc)))
	return sc, nil
}

// newEngine builds a comparison engine from the effective scoring table.
func newEngine(cmd *cobra.Command) (*compare.Engine, error) {
	sc, err := scoringConfig(cmd)
	if err != nil {
		return nil, err
	}
	return compare.New(sc)
}

// initStore opens the configured result store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
