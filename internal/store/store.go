// Package store persists ScoreResults and ComparisonResults verbatim as JSON
// payloads, alongside a few summary columns for listing.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// Kind distinguishes the two persisted record types.
type Kind string

// Record kinds.
const (
	KindScore      Kind = "score"
	KindComparison Kind = "comparison"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = eris.New("store: record not found")

// Entry is the summary of a persisted record. For scores, Subject is the
// property key, Summary the grade label and Score the total score. For
// comparisons, Subject is "key1 vs key2", Summary the verdict and Score the
// total differential.
type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Subject    string    `json:"subject" yaml:"subject"`
	Summary    string    `json:"summary" yaml:"summary"`
	Score      float64   `json:"score" yaml:"score"`
	ConfigHash string    `json:"config_hash" yaml:"config_hash"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Record is an Entry with its JSON payload.
type Record struct {
	Entry
	Payload json.RawMessage `json:"payload" yaml:"-"`
}

// ScoreResult decodes the payload of a score record.
func (r *Record) ScoreResult() (*scorer.ScoreResult, error) {
	if r.Kind != KindScore {
		return nil, eris.Errorf("store: record %s is a %s, not a score", r.ID, r.Kind)
	}
	var res scorer.ScoreResult
	if err := json.Unmarshal(r.Payload, &res); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal score")
	}
	return &res, nil
}

// ComparisonResult decodes the payload of a comparison record.
func (r *Record) ComparisonResult() (*compare.ComparisonResult, error) {
	if r.Kind != KindComparison {
		return nil, eris.Errorf("store: record %s is a %s, not a comparison", r.ID, r.Kind)
	}
	var res compare.ComparisonResult
	if err := json.Unmarshal(r.Payload, &res); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal comparison")
	}
	return &res, nil
}

// ListFilter specifies criteria for listing records.
type ListFilter struct {
	Kind        Kind   `json:"kind,omitempty"`
	PropertyKey string `json:"property_key,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// Store persists scoring history.
type Store interface {
	SaveScore(ctx context.Context, r *scorer.ScoreResult) (*Entry, error)
	SaveScores(ctx context.Context, rs []*scorer.ScoreResult) ([]Entry, error)
	SaveComparison(ctx context.Context, r *compare.ComparisonResult) (*Entry, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
	Delete(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// scoreColumns lists score_results columns in insert order.
var scoreColumns = []string{
	"id", "property_key", "parcel_id", "total_score", "grade",
	"location_score", "risk_score", "financial_score", "market_score", "profit_score",
	"confidence", "config_hash", "payload", "created_at",
}

// scoreRow is the column set written for a score record.
type scoreRow struct {
	propertyKey string
	parcelID    string
	totalScore  float64
	grade       string
	categories  [scorer.NumCategories]float64
	confidence  int
	configHash  string
	payload     []byte
}

// entry returns the listing summary of the row.
func (row *scoreRow) entry(id string, createdAt time.Time) Entry {
	return Entry{
		ID:         id,
		Kind:       KindScore,
		Subject:    row.propertyKey,
		Summary:    row.grade,
		Score:      row.totalScore,
		ConfigHash: row.configHash,
		CreatedAt:  createdAt,
	}
}

// values returns the insert values in scoreColumns order. payload is passed
// through encode so each driver can pick its JSON column type.
func (row *scoreRow) values(id string, createdAt any, encode func([]byte) any) []any {
	return []any{
		id, row.propertyKey, row.parcelID, row.totalScore, row.grade,
		row.categories[scorer.Location], row.categories[scorer.Risk], row.categories[scorer.Financial],
		row.categories[scorer.Market], row.categories[scorer.Profit],
		row.confidence, row.configHash, encode(row.payload), createdAt,
	}
}

func newScoreRow(r *scorer.ScoreResult) (*scoreRow, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal score")
	}
	row := &scoreRow{
		propertyKey: r.PropertyKey,
		parcelID:    r.ParcelID,
		totalScore:  r.TotalScore,
		grade:       r.Grade.Label,
		confidence:  r.ConfidenceLevel,
		configHash:  r.ConfigHash,
		payload:     payload,
	}
	for _, c := range scorer.Categories {
		row.categories[c] = r.Categories[c].Score
	}
	return row, nil
}

// comparisonRow is the column set written for a comparison record.
type comparisonRow struct {
	property1Key string
	property2Key string
	winner       string
	verdict      string
	strength     string
	differential float64
	confidence   int
	configHash   string
	payload      []byte
}

func newComparisonRow(r *compare.ComparisonResult) (*comparisonRow, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal comparison")
	}
	return &comparisonRow{
		property1Key: r.Property1.PropertyKey,
		property2Key: r.Property2.PropertyKey,
		winner:       string(r.OverallWinner),
		verdict:      string(r.Recommendation.Verdict),
		strength:     string(r.Recommendation.Strength),
		differential: r.TotalDifferential,
		confidence:   r.ComparisonConfidence,
		configHash:   r.ConfigHash,
		payload:      payload,
	}, nil
}

func comparisonSubject(k1, k2 string) string {
	return k1 + " vs " + k2
}

// historyQuery builds the listing query over both tables. ph renders the
// n-th (1-based) bind placeholder for the dialect.
func historyQuery(filter ListFilter, ph func(n int) string) (string, []any) {
	scores := `SELECT id, 'score' AS kind, property_key AS subject, grade AS summary, total_score AS score, config_hash, created_at, property_key AS k1, property_key AS k2 FROM score_results`
	comparisons := `SELECT id, 'comparison' AS kind, property1_key || ' vs ' || property2_key AS subject, verdict AS summary, total_differential AS score, config_hash, created_at, property1_key AS k1, property2_key AS k2 FROM comparisons`

	var from string
	switch filter.Kind {
	case KindScore:
		from = scores
	case KindComparison:
		from = comparisons
	default:
		from = scores + ` UNION ALL ` + comparisons
	}

	query := `SELECT id, kind, subject, summary, score, config_hash, created_at FROM (` + from + `) AS history WHERE 1=1`
	var args []any
	if filter.PropertyKey != "" {
		args = append(args, filter.PropertyKey)
		query += fmt.Sprintf(` AND (k1 = %s OR k2 = %s)`, ph(1), ph(1))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC, id LIMIT ` + ph(len(args))
	return query, args
}
