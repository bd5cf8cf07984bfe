package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore. pgxmock pools
// satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
	now     func() time.Time
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"get_score":      `SELECT id, 'score', property_key, grade, total_score, config_hash, created_at, payload FROM score_results WHERE id = $1`,
	"get_comparison": `SELECT id, 'comparison', property1_key || ' vs ' || property2_key, verdict, total_differential, config_hash, created_at, payload FROM comparisons WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close, now: time.Now}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS score_results (
	id              TEXT PRIMARY KEY,
	property_key    TEXT NOT NULL,
	parcel_id       TEXT NOT NULL,
	total_score     DOUBLE PRECISION NOT NULL,
	grade           TEXT NOT NULL,
	location_score  DOUBLE PRECISION NOT NULL,
	risk_score      DOUBLE PRECISION NOT NULL,
	financial_score DOUBLE PRECISION NOT NULL,
	market_score    DOUBLE PRECISION NOT NULL,
	profit_score    DOUBLE PRECISION NOT NULL,
	confidence      INTEGER NOT NULL,
	config_hash     TEXT NOT NULL,
	payload         JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comparisons (
	id                 TEXT PRIMARY KEY,
	property1_key      TEXT NOT NULL,
	property2_key      TEXT NOT NULL,
	overall_winner     TEXT NOT NULL,
	verdict            TEXT NOT NULL,
	strength           TEXT NOT NULL,
	total_differential DOUBLE PRECISION NOT NULL,
	confidence         INTEGER NOT NULL,
	config_hash        TEXT NOT NULL,
	payload            JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_score_results_property_key ON score_results(property_key);
CREATE INDEX IF NOT EXISTS idx_score_results_created_at ON score_results(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_comparisons_property1_key ON comparisons(property1_key);
CREATE INDEX IF NOT EXISTS idx_comparisons_property2_key ON comparisons(property2_key);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at DESC);
`

// Migrate creates the history tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func pgJSON(b []byte) any { return b }

func (s *PostgresStore) SaveScore(ctx context.Context, r *scorer.ScoreResult) (*Entry, error) {
	row, err := newScoreRow(r)
	if err != nil {
		return nil, err
	}
	e := row.entry(uuid.New().String(), s.now().UTC())
	_, err = s.pool.Exec(ctx,
		`INSERT INTO score_results (`+strings.Join(scoreColumns, ", ")+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		row.values(e.ID, e.CreatedAt, pgJSON)...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert score")
	}
	return &e, nil
}

// SaveScores bulk-inserts results using the COPY protocol.
func (s *PostgresStore) SaveScores(ctx context.Context, rs []*scorer.ScoreResult) ([]Entry, error) {
	if len(rs) == 0 {
		return nil, nil
	}
	entries := make([]Entry, 0, len(rs))
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		row, err := newScoreRow(r)
		if err != nil {
			return nil, err
		}
		e := row.entry(uuid.New().String(), s.now().UTC())
		entries = append(entries, e)
		rows = append(rows, row.values(e.ID, e.CreatedAt, pgJSON))
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{"score_results"}, scoreColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: COPY INTO score_results")
	}
	if int(n) != len(rows) {
		return nil, eris.Errorf("postgres: COPY INTO score_results wrote %d of %d rows", n, len(rows))
	}
	return entries, nil
}

func (s *PostgresStore) SaveComparison(ctx context.Context, r *compare.ComparisonResult) (*Entry, error) {
	row, err := newComparisonRow(r)
	if err != nil {
		return nil, err
	}
	e := &Entry{
		ID:         uuid.New().String(),
		Kind:       KindComparison,
		Subject:    comparisonSubject(row.property1Key, row.property2Key),
		Summary:    row.verdict,
		Score:      row.differential,
		ConfigHash: row.configHash,
		CreatedAt:  s.now().UTC(),
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO comparisons (id, property1_key, property2_key, overall_winner, verdict,
			strength, total_differential, confidence, config_hash, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, row.property1Key, row.property2Key, row.winner, row.verdict,
		row.strength, row.differential, row.confidence, row.configHash,
		row.payload, e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert comparison")
	}
	return e, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := scanPgRecord(s.pool.QueryRow(ctx, preparedStatements["get_score"], id))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(err, "postgres: get score %s", id)
	}

	rec, err = scanPgRecord(s.pool.QueryRow(ctx, preparedStatements["get_comparison"], id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get comparison %s", id)
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	query, args := historyQuery(filter, func(n int) string { return "$" + strconv.Itoa(n) })

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list history")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Subject, &e.Summary, &e.Score, &e.ConfigHash, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan history")
		}
		e.Kind = Kind(kind)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: iterate history")
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM score_results WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete score %s", id)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	tag, err = s.pool.Exec(ctx, `DELETE FROM comparisons WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete comparison %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "store: delete %s", id)
	}
	return nil
}

func scanPgRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var kind string
	var payload []byte
	if err := row.Scan(&rec.ID, &kind, &rec.Subject, &rec.Summary, &rec.Score, &rec.ConfigHash, &rec.CreatedAt, &payload); err != nil {
		return nil, err
	}
	rec.Kind = Kind(kind)
	rec.Payload = payload
	return &rec, nil
}
