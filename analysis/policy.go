package analysis

import (
	"fmt"

	"github.com/giygas/prescriptions-api/formulary/entities"
)

// AgeBandRange maps an inclusive age range to an age band. Ranges are
// checked in order; an age outside every range resolves to adult.
type AgeBandRange struct {
	Band entities.AgeBand `json:"band"`
	Min  int              `json:"min"`
	Max  int              `json:"max"`
}

// Policy holds the tunable clinical policy knobs. All of them encode
// calibration decisions, not code: the safety threshold, the elderly dose
// reduction, the age band boundaries and the severity weight table.
type Policy struct {
	// SafetyThreshold is the risk score below which a prescription is
	// marked safe.
	SafetyThreshold float64 `json:"safety_threshold"`

	// ElderlyDoseFactor scales both dose bounds for elderly patients.
	ElderlyDoseFactor float64 `json:"elderly_dose_factor"`

	// SeverityWeights assigns each severity level its scoring weight.
	SeverityWeights map[entities.Severity]float64 `json:"severity_weights"`

	// AgeBands defines the inclusive age ranges per band.
	AgeBands []AgeBandRange `json:"age_bands"`
}

// DefaultPolicy returns the default clinical policy: threshold 50, elderly
// factor 0.75, weights mild=1 moderate=2 severe=3 contraindicated=4 and the
// standard age bands.
func DefaultPolicy() Policy {
	return Policy{
		SafetyThreshold:   50,
		ElderlyDoseFactor: 0.75,
		SeverityWeights: map[entities.Severity]float64{
			entities.SeverityMild:            1,
			entities.SeverityModerate:        2,
			entities.SeveritySevere:          3,
			entities.SeverityContraindicated: 4,
		},
		AgeBands: []AgeBandRange{
			{Band: entities.AgeBandPediatric, Min: 0, Max: 12},
			{Band: entities.AgeBandAdolescent, Min: 13, Max: 17},
			{Band: entities.AgeBandAdult, Min: 18, Max: 64},
			{Band: entities.AgeBandElderly, Min: 65, Max: 120},
		},
	}
}

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	if p.SafetyThreshold < 0 || p.SafetyThreshold > 100 {
		return fmt.Errorf("safety threshold must be in [0,100], got: %v", p.SafetyThreshold)
	}
	if p.ElderlyDoseFactor <= 0 || p.ElderlyDoseFactor > 1 {
		return fmt.Errorf("elderly dose factor must be in (0,1], got: %v", p.ElderlyDoseFactor)
	}
	if len(p.SeverityWeights) == 0 {
		return fmt.Errorf("severity weight table is empty")
	}
	for severity, weight := range p.SeverityWeights {
		if weight <= 0 {
			return fmt.Errorf("severity weight for %q must be positive, got: %v", severity, weight)
		}
	}
	for _, band := range p.AgeBands {
		if band.Min > band.Max {
			return fmt.Errorf("age band %q has min %d > max %d", band.Band, band.Min, band.Max)
		}
	}
	return nil
}

// severityWeight returns the configured weight for a severity level,
// 0 for unknown levels.
func (p Policy) severityWeight(s entities.Severity) float64 {
	return p.SeverityWeights[s]
}

// maxSeverityWeight returns the highest configured weight. The risk score
// normalizes against this so overriding the table keeps scores in [0,100].
func (p Policy) maxSeverityWeight() float64 {
	var max float64
	for _, weight := range p.SeverityWeights {
		if weight > max {
			max = weight
		}
	}
	return max
}
