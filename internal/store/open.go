package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taxdeed-cli/internal/config"
)

// Open connects to the configured backend and runs migrations. Connecting
// and migrating are retried on transient errors.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var st Store
	connect := func(ctx context.Context) error {
		var err error
		switch cfg.Driver {
		case "sqlite", "":
			st, err = NewSQLite(cfg.DatabaseURL)
		case "postgres":
			st, err = NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
		default:
			return eris.Errorf("store: unsupported driver %q", cfg.Driver)
		}
		if err != nil {
			return err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return err
		}
		return nil
	}
	if err := retry(ctx, DefaultRetryConfig(), "open "+cfg.Driver, connect); err != nil {
		return nil, err
	}
	return st, nil
}
