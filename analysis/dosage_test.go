package analysis

import (
	"strings"
	"testing"

	"github.com/giygas/prescriptions-api/formulary/entities"
)

func TestAgeBandOfIsTotal(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	testCases := []struct {
		age      int
		expected entities.AgeBand
	}{
		{0, entities.AgeBandPediatric},
		{12, entities.AgeBandPediatric},
		{13, entities.AgeBandAdolescent},
		{17, entities.AgeBandAdolescent},
		{18, entities.AgeBandAdult},
		{64, entities.AgeBandAdult},
		{65, entities.AgeBandElderly},
		{120, entities.AgeBandElderly},
		// Outside every configured range: default to adult, never fail.
		{-1, entities.AgeBandAdult},
		{-100, entities.AgeBandAdult},
		{121, entities.AgeBandAdult},
		{100000, entities.AgeBandAdult},
	}

	for _, tc := range testCases {
		if got := calculator.AgeBandOf(tc.age); got != tc.expected {
			t.Errorf("AgeBandOf(%d): expected %s, got %s", tc.age, tc.expected, got)
		}
	}
}

func TestCalculatePediatricPerKgScaling(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	weight := 20.0
	recs := calculator.Calculate(Patient{Age: 8, Weight: &weight}, []string{"paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}

	rec := recs[0]
	if !floatEquals(rec.MinDose, 200) || !floatEquals(rec.MaxDose, 300) {
		t.Errorf("Expected 200-300 for 10-15 mg/kg at 20kg, got %v-%v", rec.MinDose, rec.MaxDose)
	}
	if rec.Unit != "mg" {
		t.Errorf("Expected per-kg unit stripped to mg, got %s", rec.Unit)
	}
	if rec.AgeBand != entities.AgeBandPediatric {
		t.Errorf("Expected pediatric band, got %s", rec.AgeBand)
	}
	if !strings.Contains(rec.SpecialInstructions, "Monitor closely") {
		t.Errorf("Expected pediatric advisory, got %q", rec.SpecialInstructions)
	}
}

func TestCalculatePediatricWithoutWeight(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	// No weight provided: the per-kg range is reported as stored.
	recs := calculator.Calculate(Patient{Age: 8}, []string{"paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if !floatEquals(rec.MinDose, 10) || !floatEquals(rec.MaxDose, 15) {
		t.Errorf("Expected unscaled 10-15, got %v-%v", rec.MinDose, rec.MaxDose)
	}
	if rec.Unit != "mg/kg" {
		t.Errorf("Expected unit mg/kg, got %s", rec.Unit)
	}
}

func TestCalculateElderlyReduction(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	recs := calculator.Calculate(Patient{Age: 70}, []string{"paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if !floatEquals(rec.MinDose, 375) || !floatEquals(rec.MaxDose, 750) {
		t.Errorf("Expected 375-750 after 0.75 factor, got %v-%v", rec.MinDose, rec.MaxDose)
	}
	if !strings.Contains(rec.SpecialInstructions, "titrate slowly") {
		t.Errorf("Expected elderly advisory, got %q", rec.SpecialInstructions)
	}
}

func TestCalculateConfigurableElderlyFactor(t *testing.T) {
	policy := DefaultPolicy()
	policy.ElderlyDoseFactor = 0.5

	calculator := NewCalculator(defaultStore(t), policy, DefaultRuleSet())
	recs := calculator.Calculate(Patient{Age: 70}, []string{"paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	if !floatEquals(recs[0].MinDose, 250) || !floatEquals(recs[0].MaxDose, 500) {
		t.Errorf("Expected 250-500 with factor 0.5, got %v-%v", recs[0].MinDose, recs[0].MaxDose)
	}
}

func TestCalculateSkipsMissingRecords(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	// No dosage data for an unknown drug; absence is not an error.
	recs := calculator.Calculate(Patient{Age: 30}, []string{"unknown_drug", "paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected only the known drug, got %d recommendations", len(recs))
	}
	if recs[0].DrugName != "paracetamol" {
		t.Errorf("Expected paracetamol, got %s", recs[0].DrugName)
	}
}

func TestCalculateAdultNoInstructions(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	recs := calculator.Calculate(Patient{Age: 30}, []string{"paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if !floatEquals(rec.MinDose, 500) || !floatEquals(rec.MaxDose, 1000) {
		t.Errorf("Expected unadjusted 500-1000, got %v-%v", rec.MinDose, rec.MaxDose)
	}
	if rec.SpecialInstructions != "" {
		t.Errorf("Expected no instructions for healthy adult, got %q", rec.SpecialInstructions)
	}
}

func TestCalculateConditionAdvisory(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	recs := calculator.Calculate(Patient{
		Age:        30,
		Conditions: []string{"renal_disease"},
	}, []string{"paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	if !strings.Contains(recs[0].SpecialInstructions, "Reduce dose by 50%") {
		t.Errorf("Expected renal advisory, got %q", recs[0].SpecialInstructions)
	}
}

func TestCalculateJoinsMultipleInstructions(t *testing.T) {
	calculator := NewCalculator(defaultStore(t), DefaultPolicy(), DefaultRuleSet())

	recs := calculator.Calculate(Patient{
		Age:        70,
		Conditions: []string{"heart_failure"},
	}, []string{"paracetamol"})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	instructions := recs[0].SpecialInstructions
	if !strings.Contains(instructions, "; ") {
		t.Errorf("Expected delimiter-joined instructions, got %q", instructions)
	}
	if !strings.Contains(instructions, "titrate slowly") || !strings.Contains(instructions, "fluid status") {
		t.Errorf("Expected both advisories, got %q", instructions)
	}
}
