// Package analysis implements the prescription safety analysis pipeline:
// pairwise interaction detection, age- and weight-adjusted dosage
// calculation, alternative medication lookup and the aggregate safety
// verdict. It is pure, synchronous, in-memory rule evaluation over the
// formulary lookup contract; every call produces a fresh report and shares
// no mutable state with other calls.
package analysis

import (
	"github.com/giygas/prescriptions-api/formulary/entities"
)

// Drug is one structured drug entry of a prescription request. The identity
// key for all lookups is the normalized name.
type Drug struct {
	Name        string `json:"name"`
	GenericName string `json:"generic_name"`
	DosageForm  string `json:"dosage_form"`
	Strength    string `json:"strength"`
	Route       string `json:"route"`
}

// Patient is the patient profile an analysis runs against. Allergies are
// carried for the caller but not used by any rule yet.
type Patient struct {
	Age        int      `json:"age"`
	Weight     *float64 `json:"weight,omitempty"`
	Conditions []string `json:"medical_conditions"`
	Allergies  []string `json:"allergies"`
}

// Interaction is one detected drug-pair interaction.
type Interaction struct {
	Drug1       string            `json:"drug1"`
	Drug2       string            `json:"drug2"`
	Severity    entities.Severity `json:"severity"`
	Description string            `json:"description"`
	Mechanism   string            `json:"mechanism"`
	Management  string            `json:"management"`
}

// DosageRecommendation is the adjusted dose range for one drug, with any
// special instructions that apply to this patient.
type DosageRecommendation struct {
	DrugName            string           `json:"drug_name"`
	AgeBand             entities.AgeBand `json:"age_group"`
	MinDose             float64          `json:"min_dose"`
	MaxDose             float64          `json:"max_dose"`
	Frequency           string           `json:"frequency"`
	Unit                string           `json:"unit"`
	SpecialInstructions string           `json:"special_instructions,omitempty"`
}

// Alternative proposes a substitute drug with the reason it is offered.
type Alternative struct {
	OriginalDrug    string `json:"original_drug"`
	AlternativeDrug string `json:"alternative_drug"`
	Reason          string `json:"reason"`
	SafetyProfile   string `json:"safety_profile"`
}

// Report is the complete safety assessment for one analysis run. It is
// constructed fresh per request and owned solely by the caller.
type Report struct {
	Interactions          []Interaction          `json:"interactions"`
	DosageRecommendations []DosageRecommendation `json:"dosage_recommendations"`
	Alternatives          []Alternative          `json:"alternatives"`
	Warnings              []string               `json:"warnings"`
	RiskScore             float64                `json:"risk_score"`
	IsSafe                bool                   `json:"is_safe"`
}

// Store is the formulary lookup contract the analysis core depends on. The
// core does not care how the dataset is loaded; "no data" is a valid,
// non-erroring state, not evidence of safety.
type Store interface {
	InteractionsBetween(drugNames []string) []entities.InteractionRecord
	DosageFor(drugName string, ageBand entities.AgeBand) (entities.DosageRecord, bool)
	AlternativesFor(drugName string) []entities.AlternativeRecord
}
