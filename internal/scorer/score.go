package scorer

import (
	"go.uber.org/zap"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// ScoreResult is the unit exchanged between scoring and comparison.
type ScoreResult struct {
	PropertyKey string `json:"property_key" yaml:"property_key"`
	ParcelID    string `json:"parcel_id" yaml:"parcel_id"`
	Address     string `json:"address,omitempty" yaml:"address,omitempty"`
	County      string `json:"county" yaml:"county"`
	State       string `json:"state" yaml:"state"`

	Categories      [NumCategories]CategoryScore `json:"categories" yaml:"categories"`
	TotalScore      float64                      `json:"total_score" yaml:"total_score"`
	Grade           GradeResult                  `json:"grade" yaml:"grade"`
	ConfidenceLevel int                          `json:"confidence_level" yaml:"confidence_level"`
	ConfidenceLabel string                       `json:"confidence_label" yaml:"confidence_label"`
	MissingFields   []string                     `json:"missing_fields,omitempty" yaml:"missing_fields,omitempty"`

	// ConfigHash identifies the scoring table the result was computed with.
	ConfigHash string `json:"config_hash" yaml:"config_hash"`
}

// Category returns the score for c.
func (r *ScoreResult) Category(c Category) CategoryScore {
	return r.Categories[c]
}

// DisplayName returns the address when known, otherwise the parcel id.
func (r *ScoreResult) DisplayName() string {
	if r.Address != "" {
		return r.Address
	}
	return r.ParcelID
}

// Scorer scores properties against one validated scoring table. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	cfg  config.ScoringConfig
	hash string
}

// New validates cfg and returns a Scorer bound to it.
func New(cfg config.ScoringConfig) (*Scorer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg, hash: ConfigHash(cfg)}, nil
}

// Config returns the scoring table.
func (s *Scorer) Config() config.ScoringConfig {
	return s.cfg
}

// Hash returns the scoring table fingerprint stamped on every result.
func (s *Scorer) Hash() string {
	return s.hash
}

// Score computes the ScoreResult for one property. ext may be nil. The only
// error is a *ValidationError for structurally invalid input.
func (s *Scorer) Score(p *model.PropertyRecord, ext *model.ExternalSignals) (*ScoreResult, error) {
	if err := ValidateInput(p, ext); err != nil {
		return nil, err
	}

	r := &ScoreResult{
		PropertyKey: p.Key(),
		ParcelID:    p.ParcelID,
		Address:     p.Address,
		County:      p.County,
		State:       p.State,
		ConfigHash:  s.hash,
	}
	for _, c := range Categories {
		r.Categories[c] = ScoreCategory(c, p, ext, s.cfg)
	}
	r.TotalScore = Aggregate(r.Categories, s.cfg.Weights)
	r.Grade = AssignGrade(r.TotalScore, s.cfg.Grades)
	r.ConfidenceLevel, r.MissingFields = Confidence(p, ext)
	r.ConfidenceLabel = ConfidenceLabel(r.ConfidenceLevel)

	zap.L().Debug("scorer: scored property",
		zap.String("parcel_id", p.ParcelID),
		zap.Float64("score", r.TotalScore),
		zap.String("grade", r.Grade.Label),
		zap.Int("confidence", r.ConfidenceLevel),
	)
	return r, nil
}

// ScoreProperty scores one property with the given scoring table. Use a
// Scorer when scoring many properties against the same table.
func ScoreProperty(p *model.PropertyRecord, ext *model.ExternalSignals, cfg config.ScoringConfig) (*ScoreResult, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return s.Score(p, ext)
}
