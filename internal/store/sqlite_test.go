package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLite(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck

	require.NoError(t, s.Migrate(context.Background()))
	s.now = stepClock()
	return s
}

func TestSQLite_SaveAndGetScore(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	a, _, _ := testResults(t)

	entry, err := s.SaveScore(ctx, a)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, KindScore, entry.Kind)
	assert.Equal(t, a.PropertyKey, entry.Subject)
	assert.Equal(t, a.Grade.Label, entry.Summary)

	rec, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, rec.ID)
	assert.Equal(t, KindScore, rec.Kind)
	assert.True(t, entry.CreatedAt.Equal(rec.CreatedAt))

	got, err := rec.ScoreResult()
	require.NoError(t, err)
	assert.Equal(t, a.TotalScore, got.TotalScore)
	assert.Equal(t, a.Grade, got.Grade)
	assert.Equal(t, a.Categories[scorer.Profit].Rationale, got.Categories[scorer.Profit].Rationale)

	_, err = rec.ComparisonResult()
	assert.Error(t, err)
}

func TestSQLite_SaveAndGetComparison(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	a, b, cmp := testResults(t)

	entry, err := s.SaveComparison(ctx, cmp)
	require.NoError(t, err)
	assert.Equal(t, KindComparison, entry.Kind)
	assert.Equal(t, a.PropertyKey+" vs "+b.PropertyKey, entry.Subject)
	assert.Equal(t, string(cmp.Recommendation.Verdict), entry.Summary)

	rec, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Subject, rec.Subject)

	got, err := rec.ComparisonResult()
	require.NoError(t, err)
	assert.Equal(t, cmp.OverallWinner, got.OverallWinner)
	assert.Equal(t, cmp.Recommendation.Reasons, got.Recommendation.Reasons)
	assert.Equal(t, cmp.TotalDifferential, got.TotalDifferential)
}

func TestSQLite_GetMissing(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_ListNewestFirst(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	a, b, cmp := testResults(t)

	e1, err := s.SaveScore(ctx, a)
	require.NoError(t, err)
	e2, err := s.SaveScore(ctx, b)
	require.NoError(t, err)
	e3, err := s.SaveComparison(ctx, cmp)
	require.NoError(t, err)

	entries, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{e3.ID, e2.ID, e1.ID}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, KindComparison, entries[0].Kind)
	assert.InDelta(t, cmp.TotalDifferential, entries[0].Score, 1e-9)
}

func TestSQLite_ListFilters(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	a, b, cmp := testResults(t)

	_, err := s.SaveScore(ctx, a)
	require.NoError(t, err)
	_, err = s.SaveScore(ctx, b)
	require.NoError(t, err)
	_, err = s.SaveComparison(ctx, cmp)
	require.NoError(t, err)

	scores, err := s.List(ctx, ListFilter{Kind: KindScore})
	require.NoError(t, err)
	assert.Len(t, scores, 2)

	comparisons, err := s.List(ctx, ListFilter{Kind: KindComparison})
	require.NoError(t, err)
	assert.Len(t, comparisons, 1)

	// The comparison matches on either side.
	forB, err := s.List(ctx, ListFilter{PropertyKey: b.PropertyKey})
	require.NoError(t, err)
	require.Len(t, forB, 2)
	assert.Equal(t, KindComparison, forB[0].Kind)
	assert.Equal(t, KindScore, forB[1].Kind)

	limited, err := s.List(ctx, ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_Delete(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	a, _, cmp := testResults(t)

	score, err := s.SaveScore(ctx, a)
	require.NoError(t, err)
	comparison, err := s.SaveComparison(ctx, cmp)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, score.ID))
	require.NoError(t, s.Delete(ctx, comparison.ID))

	_, err = s.Get(ctx, score.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.Delete(ctx, comparison.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	entries, err := st.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestSQLite_SaveScores(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	a, b, _ := testResults(t)

	entries, err := s.SaveScores(ctx, []*scorer.ScoreResult{a, b})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, a.PropertyKey, entries[0].Subject)
	assert.Equal(t, b.PropertyKey, entries[1].Subject)

	listed, err := s.List(ctx, ListFilter{Kind: KindScore})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	rec, err := s.Get(ctx, entries[1].ID)
	require.NoError(t, err)
	got, err := rec.ScoreResult()
	require.NoError(t, err)
	assert.Equal(t, b.ParcelID, got.ParcelID)
}
