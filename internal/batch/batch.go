// Package batch scores and compares many properties in parallel. Invalid
// properties are skipped with a reason; they never abort the batch.
package batch

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/taxdeed-cli/internal/compare"
	"github.com/sells-group/taxdeed-cli/internal/model"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// Skip records a property that could not be scored. Index is the position in
// the scored inputs. Rows rejected while reading the input file never became
// inputs: they carry Index -1 and the 1-based source Row instead.
type Skip struct {
	Index    int    `json:"index" yaml:"index"`
	Row      int    `json:"row,omitempty" yaml:"row,omitempty"`
	ParcelID string `json:"parcel_id" yaml:"parcel_id"`
	Field    string `json:"field,omitempty" yaml:"field,omitempty"`
	Reason   string `json:"reason" yaml:"reason"`
}

// RowSkip returns the Skip for a source row that could not be read.
func RowSkip(row int, reason string) Skip {
	return Skip{Index: -1, Row: row, Reason: reason}
}

// Position describes where the skipped property came from: "row N" for
// source rows, "#N" for the Nth input.
func (s Skip) Position() string {
	if s.Row > 0 {
		return fmt.Sprintf("row %d", s.Row)
	}
	return fmt.Sprintf("#%d", s.Index+1)
}

// ScoreReport is the outcome of ScoreAll. Results keep input order with
// skipped properties left out.
type ScoreReport struct {
	Results []*scorer.ScoreResult `json:"results" yaml:"results"`
	Skipped []Skip                `json:"skipped" yaml:"skipped"`
}

// Pair is one comparison to run.
type Pair struct {
	A, B *scorer.ScoreResult
}

// Runner fans scoring and comparison out over a bounded worker pool.
type Runner struct {
	engine      *compare.Engine
	concurrency int
}

// New returns a Runner. concurrency < 1 means 1.
func New(engine *compare.Engine, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{engine: engine, concurrency: concurrency}
}

// ScoreAll scores every input. A *scorer.ValidationError becomes a Skip; the
// only error returned is context cancellation.
func (r *Runner) ScoreAll(ctx context.Context, inputs []model.PropertyInput) (*ScoreReport, error) {
	zap.L().Info("batch: scoring properties",
		zap.Int("properties", len(inputs)),
		zap.Int("concurrency", r.concurrency),
	)

	results := make([]*scorer.ScoreResult, len(inputs))
	var (
		mu      sync.Mutex
		skipped []Skip
		scored  atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in := &inputs[i]
			log := zap.L().With(zap.String("parcel_id", in.Property.ParcelID))

			res, err := r.engine.Scorer().Score(&in.Property, in.Signals)
			if err != nil {
				skip := Skip{Index: i, ParcelID: in.Property.ParcelID, Reason: err.Error()}
				if ve, ok := scorer.AsValidationError(err); ok {
					skip.Field = ve.Field
					skip.Reason = ve.Field + " " + ve.Reason
				}
				log.Warn("batch: skipping property", zap.String("reason", skip.Reason))
				mu.Lock()
				skipped = append(skipped, skip)
				mu.Unlock()
				return nil // don't abort batch on individual failure
			}

			scored.Add(1)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: score properties")
	}

	report := &ScoreReport{Results: make([]*scorer.ScoreResult, 0, scored.Load()), Skipped: []Skip{}}
	for _, res := range results {
		if res != nil {
			report.Results = append(report.Results, res)
		}
	}
	slices.SortFunc(skipped, func(a, b Skip) int { return cmp.Compare(a.Index, b.Index) })
	report.Skipped = append(report.Skipped, skipped...)

	zap.L().Info("batch: scoring complete",
		zap.Int64("scored", scored.Load()),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// CompareAll runs every pair. Comparisons cannot fail, so the only error is
// context cancellation.
func (r *Runner) CompareAll(ctx context.Context, pairs []Pair) ([]*compare.ComparisonResult, error) {
	out := make([]*compare.ComparisonResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.engine.Compare(p.A, p.B)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: compare properties")
	}

	zap.L().Info("batch: comparisons complete", zap.Int("comparisons", len(out)))
	return out, nil
}

// CompareToBaseline compares the baseline against every other result, with
// the baseline as property1.
func (r *Runner) CompareToBaseline(ctx context.Context, baseline *scorer.ScoreResult, results []*scorer.ScoreResult) ([]*compare.ComparisonResult, error) {
	pairs := make([]Pair, 0, len(results))
	for _, res := range results {
		if res.PropertyKey == baseline.PropertyKey {
			continue
		}
		pairs = append(pairs, Pair{A: baseline, B: res})
	}
	return r.CompareAll(ctx, pairs)
}

// Rank returns the results ordered by total score, highest first. Equal
// scores keep their input order.
func Rank(results []*scorer.ScoreResult) []*scorer.ScoreResult {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b *scorer.ScoreResult) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})
	return ranked
}

// Find returns the result whose parcel id or property key matches id.
func Find(results []*scorer.ScoreResult, id string) (*scorer.ScoreResult, bool) {
	for _, res := range results {
		if res.ParcelID == id || res.PropertyKey == id {
			return res, true
		}
	}
	return nil, false
}
