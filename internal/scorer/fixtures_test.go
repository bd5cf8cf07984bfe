package scorer

import (
	"time"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

func defaultTestConfig() config.ScoringConfig {
	return DefaultScoringConfig()
}

// propertyOne is the well-located, low-debt parcel used across tests.
func propertyOne() (*model.PropertyRecord, *model.ExternalSignals) {
	p := &model.PropertyRecord{
		ParcelID:    "12-345-678",
		Address:     "101 Main St",
		County:      "Allegheny",
		State:       "PA",
		TotalDue:    model.Some(8500.0),
		MarketValue: model.Some(225000.0),
	}
	ext := &model.ExternalSignals{
		WalkScore: model.Some(85.0),
		Crime:     model.CrimeSignals{Index: model.Some(25.0)},
		Schools:   model.SchoolSignals{Overall: model.Some(8.0)},
	}
	return p, ext
}

// propertyTwo carries more debt against less value in a weaker area.
func propertyTwo() (*model.PropertyRecord, *model.ExternalSignals) {
	p := &model.PropertyRecord{
		ParcelID:    "98-765-432",
		Address:     "22 Side Ave",
		County:      "Allegheny",
		State:       "PA",
		TotalDue:    model.Some(12500.0),
		MarketValue: model.Some(115000.0),
	}
	ext := &model.ExternalSignals{
		WalkScore: model.Some(62.0),
		Crime:     model.CrimeSignals{Index: model.Some(58.0)},
		Schools:   model.SchoolSignals{Overall: model.Some(5.0)},
	}
	return p, ext
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
