package compare

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

// Engine compares scored properties under one scoring table. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	scorer *scorer.Scorer
	cfg    config.ComparisonConfig
}

// New validates cfg and returns an Engine bound to it.
func New(cfg config.ScoringConfig) (*Engine, error) {
	s, err := scorer.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{scorer: s, cfg: cfg.Comparison}, nil
}

// Scorer returns the scorer the engine uses for CompareProperties.
func (e *Engine) Scorer() *scorer.Scorer {
	return e.scorer
}

// CompareProperties scores both properties and compares them. The only
// error is a *scorer.ValidationError whose Side names the offending input.
func (e *Engine) CompareProperties(a, b *model.PropertyRecord, extA, extB *model.ExternalSignals) (*ComparisonResult, error) {
	ra, err := e.scorer.Score(a, extA)
	if err != nil {
		return nil, withSide(err, string(WinnerProperty1))
	}
	rb, err := e.scorer.Score(b, extB)
	if err != nil {
		return nil, withSide(err, string(WinnerProperty2))
	}
	return e.Compare(ra, rb), nil
}

// Compare builds the comparison of two ScoreResults. Comparing a property
// with itself, or results produced under different scoring tables, is
// degenerate: every differential is zero, every winner is a tie and a
// warning explains why.
func (e *Engine) Compare(a, b *scorer.ScoreResult) *ComparisonResult {
	r := &ComparisonResult{
		Property1:            refOf(a),
		Property2:            refOf(b),
		ComparisonConfidence: min(a.ConfidenceLevel, b.ConfidenceLevel),
		ConfigHash:           a.ConfigHash,
	}

	var degenerate *Warning
	switch {
	case a.PropertyKey == b.PropertyKey:
		degenerate = &Warning{
			Code:    WarningSelfComparison,
			Message: "property " + a.PropertyKey + " was compared with itself; no differences reported",
		}
	case a.ConfigHash != b.ConfigHash:
		degenerate = &Warning{
			Code:    WarningIncompatibleConfig,
			Message: "scores were computed with different scoring configurations (" + a.ConfigHash + " vs " + b.ConfigHash + "); no differences reported",
		}
		r.ConfigHash = ""
	}

	for _, c := range scorer.Categories {
		cc := CategoryComparison{
			Category:  c,
			Property1: a.Category(c),
			Property2: b.Category(c),
			Magnitude: MagnitudeNegligible,
			Winner:    WinnerTie,
		}
		if degenerate == nil {
			cc.Differential = scorer.Round(cc.Property1.Score-cc.Property2.Score, 1)
			cc.PercentageDifferential = e.percentage(cc.Differential, cc.Property2.Score)
			cc.Magnitude = ClassifyMagnitude(math.Abs(cc.Differential), e.cfg)
			cc.Winner = e.winner(cc.Differential)
		}
		switch cc.Winner {
		case WinnerProperty1:
			r.CategorySummary.Property1Wins++
		case WinnerProperty2:
			r.CategorySummary.Property2Wins++
		default:
			r.CategorySummary.Ties++
		}
		r.Categories[c] = cc
	}

	r.OverallMagnitude = MagnitudeNegligible
	r.OverallWinner = WinnerTie
	if degenerate == nil {
		r.TotalDifferential = scorer.Round(a.TotalScore-b.TotalScore, 2)
		r.TotalPercentageDifferential = e.percentage(r.TotalDifferential, b.TotalScore)
		r.OverallMagnitude = ClassifyMagnitude(math.Abs(r.TotalDifferential), e.cfg)
		// Decided on the totals alone, never by the category tally.
		r.OverallWinner = e.winner(r.TotalDifferential)
	}

	r.Recommendation = recommend(r, e.cfg)
	r.TradeOffs = tradeOffs(r)
	r.Warnings = warnings(r, e.cfg)
	if degenerate != nil {
		r.Warnings = append([]Warning{*degenerate}, r.Warnings...)
		r.Recommendation.Summary = degenerate.Message
	}

	zap.L().Debug("compare: compared properties",
		zap.String("property1", a.PropertyKey),
		zap.String("property2", b.PropertyKey),
		zap.Float64("differential", r.TotalDifferential),
		zap.String("winner", string(r.OverallWinner)),
		zap.String("verdict", string(r.Recommendation.Verdict)),
	)
	return r
}

// winner applies the tie tolerance to a signed differential.
func (e *Engine) winner(diff float64) Winner {
	switch {
	case math.Abs(diff) < e.cfg.TieTolerance:
		return WinnerTie
	case diff > 0:
		return WinnerProperty1
	default:
		return WinnerProperty2
	}
}

// percentage is the differential relative to property2's score. The epsilon
// floor keeps a zero score from dividing by zero.
func (e *Engine) percentage(diff, base float64) float64 {
	return scorer.Round(diff/math.Max(base, e.cfg.PercentEpsilon)*100, 1)
}

// ClassifyMagnitude buckets an absolute differential.
func ClassifyMagnitude(absDiff float64, cc config.ComparisonConfig) Magnitude {
	switch {
	case absDiff < cc.NegligibleBelow:
		return MagnitudeNegligible
	case absDiff < cc.ModerateBelow:
		return MagnitudeModerate
	case absDiff < cc.SignificantBelow:
		return MagnitudeSignificant
	default:
		return MagnitudeDramatic
	}
}

// Compare compares two ScoreResults under cfg.
func Compare(a, b *scorer.ScoreResult, cfg config.ScoringConfig) (*ComparisonResult, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Compare(a, b), nil
}

// CompareProperties scores and compares two properties under cfg. extA and
// extB may be nil.
func CompareProperties(a, b *model.PropertyRecord, extA, extB *model.ExternalSignals, cfg config.ScoringConfig) (*ComparisonResult, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.CompareProperties(a, b, extA, extB)
}

func refOf(r *scorer.ScoreResult) PropertyRef {
	return PropertyRef{
		PropertyKey:     r.PropertyKey,
		ParcelID:        r.ParcelID,
		Address:         r.Address,
		TotalScore:      r.TotalScore,
		Grade:           r.Grade,
		ConfidenceLevel: r.ConfidenceLevel,
	}
}

func withSide(err error, side string) error {
	if ve, ok := scorer.AsValidationError(err); ok {
		tagged := *ve
		tagged.Side = side
		return &tagged
	}
	return err
}
