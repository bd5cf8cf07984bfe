package compare

import (
	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

func defaultTestConfig() config.ScoringConfig {
	return scorer.DefaultScoringConfig()
}

func testEngine() *Engine {
	e, err := New(defaultTestConfig())
	if err != nil {
		panic(err)
	}
	return e
}

func propertyOne() (*model.PropertyRecord, *model.ExternalSignals) {
	return &model.PropertyRecord{
			ParcelID:    "12-345-678",
			Address:     "101 Main St",
			County:      "Allegheny",
			State:       "PA",
			TotalDue:    model.Some(8500.0),
			MarketValue: model.Some(225000.0),
		}, &model.ExternalSignals{
			WalkScore: model.Some(85.0),
			Crime:     model.CrimeSignals{Index: model.Some(25.0)},
			Schools:   model.SchoolSignals{Overall: model.Some(8.0)},
		}
}

func propertyTwo() (*model.PropertyRecord, *model.ExternalSignals) {
	return &model.PropertyRecord{
			ParcelID:    "98-765-432",
			Address:     "22 Side Ave",
			County:      "Allegheny",
			State:       "PA",
			TotalDue:    model.Some(12500.0),
			MarketValue: model.Some(115000.0),
		}, &model.ExternalSignals{
			WalkScore: model.Some(62.0),
			Crime:     model.CrimeSignals{Index: model.Some(58.0)},
			Schools:   model.SchoolSignals{Overall: model.Some(5.0)},
		}
}

// resultOf builds a ScoreResult directly from five category scores
// (location, risk, financial, market, profit).
func resultOf(key string, confidence int, scores [scorer.NumCategories]float64) *scorer.ScoreResult {
	cfg := defaultTestConfig()
	r := &scorer.ScoreResult{
		PropertyKey:     key,
		ParcelID:        key,
		ConfidenceLevel: confidence,
		ConfigHash:      scorer.ConfigHash(cfg),
	}
	for _, c := range scorer.Categories {
		r.Categories[c] = scorer.CategoryScore{
			Category:  c,
			Score:     scores[c],
			Rationale: []string{c.String() + " rationale for " + key},
		}
	}
	r.TotalScore = scorer.Aggregate(r.Categories, cfg.Weights)
	r.Grade = scorer.AssignGrade(r.TotalScore, cfg.Grades)
	return r
}
