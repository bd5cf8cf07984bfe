package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// sqliteTimeLayout is fixed-width so lexical order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS score_results (
	id              TEXT PRIMARY KEY,
	property_key    TEXT NOT NULL,
	parcel_id       TEXT NOT NULL,
	total_score     REAL NOT NULL,
	grade           TEXT NOT NULL,
	location_score  REAL NOT NULL,
	risk_score      REAL NOT NULL,
	financial_score REAL NOT NULL,
	market_score    REAL NOT NULL,
	profit_score    REAL NOT NULL,
	confidence      INTEGER NOT NULL,
	config_hash     TEXT NOT NULL,
	payload         TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS comparisons (
	id                 TEXT PRIMARY KEY,
	property1_key      TEXT NOT NULL,
	property2_key      TEXT NOT NULL,
	overall_winner     TEXT NOT NULL,
	verdict            TEXT NOT NULL,
	strength           TEXT NOT NULL,
	total_differential REAL NOT NULL,
	confidence         INTEGER NOT NULL,
	config_hash        TEXT NOT NULL,
	payload            TEXT NOT NULL,
	created_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_score_results_property_key ON score_results(property_key);
CREATE INDEX IF NOT EXISTS idx_score_results_created_at ON score_results(created_at);
CREATE INDEX IF NOT EXISTS idx_comparisons_property1_key ON comparisons(property1_key);
CREATE INDEX IF NOT EXISTS idx_comparisons_property2_key ON comparisons(property2_key);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

// Migrate creates the history tables.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var sqliteInsertScore = `INSERT INTO score_results (` + strings.Join(scoreColumns, ", ") +
	`) VALUES (?` + strings.Repeat(", ?", len(scoreColumns)-1) + `)`

func sqliteText(b []byte) any { return string(b) }

func (s *SQLiteStore) SaveScore(ctx context.Context, r *scorer.ScoreResult) (*Entry, error) {
	row, err := newScoreRow(r)
	if err != nil {
		return nil, err
	}
	e := row.entry(uuid.New().String(), s.now().UTC())
	_, err = s.db.ExecContext(ctx, sqliteInsertScore,
		row.values(e.ID, e.CreatedAt.Format(sqliteTimeLayout), sqliteText)...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert score")
	}
	return &e, nil
}

// SaveScores inserts all results in one transaction.
func (s *SQLiteStore) SaveScores(ctx context.Context, rs []*scorer.ScoreResult) ([]Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteInsertScore)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare insert score")
	}
	defer stmt.Close() //nolint:errcheck

	entries := make([]Entry, 0, len(rs))
	for _, r := range rs {
		row, err := newScoreRow(r)
		if err != nil {
			return nil, err
		}
		e := row.entry(uuid.New().String(), s.now().UTC())
		if _, err := stmt.ExecContext(ctx, row.values(e.ID, e.CreatedAt.Format(sqliteTimeLayout), sqliteText)...); err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert score %s", r.ParcelID)
		}
		entries = append(entries, e)
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit scores")
	}
	return entries, nil
}

func (s *SQLiteStore) SaveComparison(ctx context.Context, r *compare.ComparisonResult) (*Entry, error) {
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, property1_key, property2_key, overall_winner, verdict,
			strength, total_differential, confidence, config_hash, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, row.property1Key, row.property2Key, row.winner, row.verdict,
		row.strength, row.differential, row.confidence, row.configHash,
		string(row.payload), e.CreatedAt.Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert comparison")
	}
	return e, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT id, 'score', property_key, grade, total_score, config_hash, created_at, payload
		 FROM score_results WHERE id = ?`, id))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(err, "sqlite: get score %s", id)
	}

	rec, err = scanRecord(s.db.QueryRowContext(ctx,
		`SELECT id, 'comparison', property1_key || ' vs ' || property2_key, verdict, total_differential, config_hash, created_at, payload
		 FROM comparisons WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get comparison %s", id)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	query, args := historyQuery(filter, func(n int) string { return "?" + strconv.Itoa(n) })

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list history")
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, created string
		if err := rows.Scan(&e.ID, &kind, &e.Subject, &e.Summary, &e.Score, &e.ConfigHash, &created); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan history")
		}
		e.Kind = Kind(kind)
		if e.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse created_at %q", created)
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate history")
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM score_results WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete score %s", id)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	res, err = s.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete comparison %s", id)
	}
	return checkRowsAffected(res, id)
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "store: delete %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*Record, error) {
	var rec Record
	var kind, created, payload string
	if err := row.Scan(&rec.ID, &kind, &rec.Subject, &rec.Summary, &rec.Score, &rec.ConfigHash, &created, &payload); err != nil {
		return nil, err
	}
	rec.Kind = Kind(kind)
	t, err := time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: parse created_at %q", created)
	}
	rec.CreatedAt = t
	rec.Payload = []byte(payload)
	return &rec, nil
}
