package analysis

import (
	"strings"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/formulary/entities"
)

// Calculator produces age- and weight-adjusted dosage recommendations.
type Calculator struct {
	store  Store
	policy Policy
	rules  RuleSet
}

// NewCalculator creates a dosage calculator over the given store.
func NewCalculator(store Store, policy Policy, rules RuleSet) *Calculator {
	return &Calculator{store: store, policy: policy, rules: rules}
}

// AgeBandOf returns the first configured band whose inclusive range contains
// age, falling back to adult. Total over all integers: negative and absurdly
// large ages resolve to adult instead of failing.
func (c *Calculator) AgeBandOf(age int) entities.AgeBand {
	for _, band := range c.policy.AgeBands {
		if age >= band.Min && age <= band.Max {
			return band.Band
		}
	}
	return entities.AgeBandAdult
}

// Calculate looks up the dosage record for each drug in the patient's age
// band and applies the adjustments: per-kilogram weight scaling for
// pediatric patients and the elderly dose reduction factor. Drugs without a
// record for the band are skipped silently; absence is not an error.
//
// All dose math is floating point and unrounded; presentation may round.
func (c *Calculator) Calculate(patient Patient, drugNames []string) []DosageRecommendation {
	ageBand := c.AgeBandOf(patient.Age)

	var recommendations []DosageRecommendation
	for _, drug := range drugNames {
		record, ok := c.store.DosageFor(drug, ageBand)
		if !ok {
			continue
		}

		minDose := record.MinDose
		maxDose := record.MaxDose
		unit := record.Unit

		// Pediatric doses stored per kilogram scale by the patient's
		// weight and report in the absolute unit.
		if ageBand == entities.AgeBandPediatric && patient.Weight != nil {
			if absolute, perKg := strings.CutSuffix(unit, "/kg"); perKg {
				minDose *= *patient.Weight
				maxDose *= *patient.Weight
				unit = absolute
			}
		}

		// Elderly reduction is independent of unit handling.
		if ageBand == entities.AgeBandElderly {
			minDose *= c.policy.ElderlyDoseFactor
			maxDose *= c.policy.ElderlyDoseFactor
		}

		recommendations = append(recommendations, DosageRecommendation{
			DrugName:            drug,
			AgeBand:             ageBand,
			MinDose:             minDose,
			MaxDose:             maxDose,
			Frequency:           record.Frequency,
			Unit:                unit,
			SpecialInstructions: c.specialInstructions(ageBand, patient.Conditions),
		})
	}

	return recommendations
}

// specialInstructions joins the age-band advisory with any condition
// advisories that match the patient's conditions. Empty when none apply.
func (c *Calculator) specialInstructions(ageBand entities.AgeBand, conditions []string) string {
	var instructions []string

	switch ageBand {
	case entities.AgeBandPediatric:
		instructions = append(instructions, "Monitor closely for adverse effects")
	case entities.AgeBandElderly:
		instructions = append(instructions, "Start with lower dose and titrate slowly")
	}

	for _, condition := range conditions {
		if advisory, ok := c.rules.ConditionAdvisories[formulary.NormalizeName(condition)]; ok {
			instructions = append(instructions, advisory)
		}
	}

	return strings.Join(instructions, "; ")
}
