package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/batch"
	"github.com/sells-group/taxdeed-cli/internal/ingest"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// addInputFlags registers the flags shared by commands that read a property list.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "property list (.csv, .tsv, .xlsx or .json)")
	cmd.Flags().String("sheet", "", "XLSX sheet name (default first sheet)")
	cmd.Flags().String("state", "", "state for rows without a state column")
	cmd.Flags().String("county", "", "county for rows without a county column")
	_ = cmd.MarkFlagRequired("input")
}

// readInputs reads the --input file. Rows that cannot be parsed are logged
// and returned as skips.
func readInputs(cmd *cobra.Command) ([]model.PropertyInput, []batch.Skip, error) {
	path, _ := cmd.Flags().GetString("input")
	sheet, _ := cmd.Flags().GetString("sheet")
	state, _ := cmd.Flags().GetString("state")
	county, _ := cmd.Flags().GetString("county")

	res, err := ingest.ReadFile(cmd.Context(), path, ingest.Options{
		DefaultState:  state,
		DefaultCounty: county,
		Sheet:         sheet,
	})
	if err != nil {
		return nil, nil, err
	}

	log := zap.L().With(zap.String("input", path))
	skips := make([]batch.Skip, 0, len(res.Skipped))
	for _, skip := range res.Skipped {
		log.Warn("skipping input row", zap.Int("row", skip.Row), zap.String("reason", skip.Reason))
		skips = append(skips, batch.RowSkip(skip.Row, skip.Reason))
	}
	if len(res.Unmapped) > 0 {
		log.Debug("ignoring unmapped columns", zap.Strings("columns", res.Unmapped))
	}
	log.Info("read property list",
		zap.Int("properties", len(res.Inputs)),
		zap.Int("skipped_rows", len(res.Skipped)),
	)
	return res.Inputs, skips, nil
}

// findInput returns the input whose parcel id or property key matches id.
// The id is cleaned the same way as parcel id cells.
func findInput(inputs []model.PropertyInput, id string) (model.PropertyInput, error) {
	clean, err := ingest.CleanParcelID(id)
	if err != nil {
		return model.PropertyInput{}, eris.Wrapf(err, "parcel %q", id)
	}
	if clean == "" {
		return model.PropertyInput{}, eris.New("parcel id is required")
	}
	for _, in := range inputs {
		if in.Property.ParcelID == clean || in.Property.Key() == id {
			return in, nil
		}
	}
	return model.PropertyInput{}, eris.Errorf("parcel %q not found in input", id)
}

// openOutput returns the --output file, or stdout when it is empty. The
// returned close func is always non-nil.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path) //nolint:gosec // path comes from the CLI flag
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}
