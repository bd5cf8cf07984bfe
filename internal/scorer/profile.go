package scorer

import (
	"bytes"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/taxdeed-cli/internal/config"
)

// ApplyProfile overlays a YAML scoring profile onto base. Keys absent from
// the profile keep their base value; unknown keys are rejected. The result
// is validated.
func ApplyProfile(base config.ScoringConfig, r io.Reader) (config.ScoringConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return base, eris.Wrap(err, "scorer: read profile")
	}

	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return base, eris.Wrap(err, "scorer: decode profile")
	}
	if err := ValidateConfig(cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// LoadProfile reads a scoring profile file and overlays it onto base.
func LoadProfile(path string, base config.ScoringConfig) (config.ScoringConfig, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the CLI flag
	if err != nil {
		return base, eris.Wrapf(err, "scorer: open profile %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ApplyProfile(base, f)
}
