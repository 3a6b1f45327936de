// Package entities defines the reference-data records served by the formulary:
// drug-pair interactions, per-age-band dosage ranges and alternative medications.
package entities

// Severity is the ordinal clinical seriousness of a drug-pair interaction.
// The ordering mild < moderate < severe < contraindicated is load-bearing:
// interaction sorting and risk scoring both depend on it.
type Severity string

const (
	SeverityMild            Severity = "mild"
	SeverityModerate        Severity = "moderate"
	SeveritySevere          Severity = "severe"
	SeverityContraindicated Severity = "contraindicated"
)

// Severities lists all known severity levels in ascending order.
var Severities = []Severity{
	SeverityMild,
	SeverityModerate,
	SeveritySevere,
	SeverityContraindicated,
}

// Known reports whether s is one of the defined severity levels.
func (s Severity) Known() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// AgeBand is the coarse patient age bucket used to select dosage records
// and advisory rules.
type AgeBand string

const (
	AgeBandPediatric  AgeBand = "pediatric"
	AgeBandAdolescent AgeBand = "adolescent"
	AgeBandAdult      AgeBand = "adult"
	AgeBandElderly    AgeBand = "elderly"
)

// InteractionRecord describes a known interaction between an unordered pair
// of drugs. Lookups must match regardless of which drug is listed first.
type InteractionRecord struct {
	Drug1       string   `json:"drug1"`
	Drug2       string   `json:"drug2"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Mechanism   string   `json:"mechanism"`
	Management  string   `json:"management"`
}

// DosageRecord holds the recommended dose range for one drug in one age band.
// At most one record exists per (drug, age band) pair.
type DosageRecord struct {
	Drug      string  `json:"drug"`
	AgeBand   AgeBand `json:"age_group"`
	MinDose   float64 `json:"min_dose"`
	MaxDose   float64 `json:"max_dose"`
	Frequency string  `json:"frequency"`
	Unit      string  `json:"unit"`
}

// AlternativeRecord proposes a substitute for a drug, with the clinical
// reason and a free-text safety profile. A drug may have several.
type AlternativeRecord struct {
	Original      string `json:"original"`
	Alternative   string `json:"alternative"`
	Reason        string `json:"reason"`
	SafetyProfile string `json:"safety_profile"`
}
