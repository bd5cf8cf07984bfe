package scorer

import (
	"fmt"

	"github.com/sells-group/taxdeed-cli/internal/config"
	"github.com/sells-group/taxdeed-cli/internal/model"
)

// scoreRisk inverts the crime index and subtracts fixed penalties for
// validation status and structural flags. Missing crime data falls back to a
// conservative default rather than a neutral one.
func scoreRisk(p *model.PropertyRecord, ext *model.ExternalSignals, cfg *config.ScoringConfig) CategoryScore {
	rc := cfg.Risk
	var cs CategoryScore

	if idx, derived, ok := CrimeIndex(ext.Crime, rc); ok {
		cs.Score = 100 - idx
		if derived {
			cs.Rationale = append(cs.Rationale, fmt.Sprintf("crime index %.0f (%s), derived from violent/property rates", idx, crimeBand(idx)))
		} else {
			cs.Rationale = append(cs.Rationale, fmt.Sprintf("crime index %.0f (%s)", idx, crimeBand(idx)))
		}
		if ext.Crime.Source != "" {
			src := "crime data source: " + ext.Crime.Source
			if asOf, ok := ext.Crime.AsOf.Get(); ok {
				src += " as of " + asOf.Format("2006-01-02")
			}
			cs.Rationale = append(cs.Rationale, src)
		}
	} else {
		cs.Score = rc.MissingDefault
		cs.UsedDefault = true
		cs.Rationale = append(cs.Rationale, "no crime data; conservative default applied")
	}

	switch p.ValidationStatus {
	case model.ValidationCaution:
		cs.Score -= rc.CautionPenalty
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("validation status CAUTION (-%.0f)", rc.CautionPenalty))
	case model.ValidationReject:
		cs.Score -= rc.RejectPenalty
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("validation status REJECT (-%.0f)", rc.RejectPenalty))
	}

	if landlocked, ok := p.Landlocked.Get(); ok && landlocked {
		cs.Score -= rc.LandlockedPenalty
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("landlocked parcel, no road access (-%.0f)", rc.LandlockedPenalty))
	}

	if year, ok := p.YearBuilt.Get(); ok && year > 0 && year < rc.OldStructureYear {
		cs.Score -= rc.OldStructurePenalty
		cs.Rationale = append(cs.Rationale, fmt.Sprintf("structure built %d, before %d (-%.0f)", year, rc.OldStructureYear, rc.OldStructurePenalty))
	}

	return cs
}

// CrimeIndex returns the 0-100 crime index for the signals. When only
// per-100k rates are present the index is derived from their ratio to the
// national averages: safety = clamp(10 - 5*avgRatio, 0, 10), index = 100 - 10*safety.
func CrimeIndex(c model.CrimeSignals, rc config.RiskConfig) (index float64, derived, ok bool) {
	if idx, present := c.Index.Get(); present {
		return clamp(idx, 0, 100), false, true
	}
	violent, hasViolent := c.ViolentRate.Get()
	property, hasProperty := c.PropertyRate.Get()
	if !hasViolent || !hasProperty || rc.NationalViolentRate <= 0 || rc.NationalPropertyRate <= 0 {
		return 0, false, false
	}
	avgRatio := (violent/rc.NationalViolentRate + property/rc.NationalPropertyRate) / 2
	safety := clamp(10-5*avgRatio, 0, 10)
	return 100 - 10*safety, true, true
}

func crimeBand(idx float64) string {
	switch {
	case idx < 30:
		return "low"
	case idx < 60:
		return "moderate"
	default:
		return "high"
	}
}
