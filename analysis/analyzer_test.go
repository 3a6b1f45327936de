package analysis

import (
	"math"
	"testing"

	"github.com/giygas/prescriptions-api/data"
	"github.com/giygas/prescriptions-api/formulary"
)

// defaultStore returns a container loaded with the embedded default dataset.
func defaultStore(t *testing.T) *data.DataContainer {
	t.Helper()

	interactions, dosages, alternatives, err := formulary.NewParser("").ParseAll()
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}

	dc := data.NewDataContainer()
	dc.UpdateData(interactions, dosages, alternatives)
	return dc
}

func defaultAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(defaultStore(t), DefaultPolicy(), DefaultRuleSet())
}

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzeNoDrugs(t *testing.T) {
	analyzer := defaultAnalyzer(t)

	report, err := analyzer.Analyze(Patient{Age: 30}, nil)
	if err != ErrNoDrugs {
		t.Fatalf("Expected ErrNoDrugs, got %v", err)
	}
	if report != nil {
		t.Error("Expected nil report on input error")
	}
}

func TestAnalyzeWarfarinAspirin(t *testing.T) {
	analyzer := defaultAnalyzer(t)

	report, err := analyzer.Analyze(Patient{Age: 45}, []Drug{
		{Name: "warfarin"},
		{Name: "aspirin"},
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(report.Interactions) != 1 {
		t.Fatalf("Expected 1 interaction, got %d", len(report.Interactions))
	}
	interaction := report.Interactions[0]
	if interaction.Drug1 != "warfarin" || interaction.Drug2 != "aspirin" {
		t.Errorf("Expected warfarin/aspirin, got %s/%s", interaction.Drug1, interaction.Drug2)
	}
	if interaction.Severity != "severe" {
		t.Errorf("Expected severe severity, got %s", interaction.Severity)
	}

	if !floatEquals(report.RiskScore, 75) {
		t.Errorf("Expected risk score 75, got %v", report.RiskScore)
	}
	if report.IsSafe {
		t.Error("Expected is_safe=false at risk 75 with threshold 50")
	}
}

func TestAnalyzePediatricWeightScaling(t *testing.T) {
	analyzer := defaultAnalyzer(t)

	weight := 20.0
	report, err := analyzer.Analyze(Patient{Age: 8, Weight: &weight}, []Drug{
		{Name: "paracetamol"},
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(report.DosageRecommendations) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(report.DosageRecommendations))
	}
	rec := report.DosageRecommendations[0]
	if !floatEquals(rec.MinDose, 200) || !floatEquals(rec.MaxDose, 300) {
		t.Errorf("Expected 200-300, got %v-%v", rec.MinDose, rec.MaxDose)
	}
	if rec.Unit != "mg" {
		t.Errorf("Expected unit mg, got %s", rec.Unit)
	}
	if rec.SpecialInstructions == "" {
		t.Error("Expected pediatric special instructions")
	}

	if !report.IsSafe {
		t.Error("Expected is_safe=true with no interactions")
	}
}

func TestAnalyzeElderlyReduction(t *testing.T) {
	analyzer := defaultAnalyzer(t)

	report, err := analyzer.Analyze(Patient{Age: 70}, []Drug{
		{Name: "paracetamol"},
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(report.DosageRecommendations) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(report.DosageRecommendations))
	}
	rec := report.DosageRecommendations[0]
	if !floatEquals(rec.MinDose, 375) || !floatEquals(rec.MaxDose, 750) {
		t.Errorf("Expected 375-750, got %v-%v", rec.MinDose, rec.MaxDose)
	}
	if rec.SpecialInstructions == "" {
		t.Error("Expected elderly special instructions")
	}
}

func TestAnalyzeContraindicationLabelMismatch(t *testing.T) {
	analyzer := defaultAnalyzer(t)

	// The contraindication table lists metformin under "renal_failure";
	// the patient label "renal_disease" must not match it.
	report, err := analyzer.Analyze(Patient{
		Age:        50,
		Conditions: []string{"renal_disease"},
	}, []Drug{{Name: "metformin"}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	for _, warning := range report.Warnings {
		t.Errorf("Expected no warnings, got %q", warning)
	}
}

func TestAnalyzeContraindicationExactMatch(t *testing.T) {
	analyzer := defaultAnalyzer(t)

	report, err := analyzer.Analyze(Patient{
		Age:        50,
		Conditions: []string{"renal_failure"},
	}, []Drug{{Name: "metformin"}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(report.Warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d: %v", len(report.Warnings), report.Warnings)
	}
	expected := "metformin is contraindicated in renal_failure"
	if report.Warnings[0] != expected {
		t.Errorf("Expected %q, got %q", expected, report.Warnings[0])
	}
}

func TestAnalyzeFreshReportPerCall(t *testing.T) {
	analyzer := defaultAnalyzer(t)

	first, err := analyzer.Analyze(Patient{Age: 30}, []Drug{{Name: "warfarin"}, {Name: "aspirin"}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := analyzer.Analyze(Patient{Age: 30}, []Drug{{Name: "warfarin"}, {Name: "aspirin"}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if first == second {
		t.Error("Expected a fresh report per call")
	}
	first.Warnings = append(first.Warnings, "mutated")
	if len(second.Warnings) != 0 {
		t.Error("Reports must not share state")
	}
}

func TestAnalyzeEmptyStore(t *testing.T) {
	// A degraded (empty) store is a valid state: analysis still runs and
	// reports no findings rather than erroring.
	analyzer := NewAnalyzer(data.NewDataContainer(), DefaultPolicy(), DefaultRuleSet())

	report, err := analyzer.Analyze(Patient{Age: 30}, []Drug{{Name: "warfarin"}, {Name: "aspirin"}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(report.Interactions) != 0 {
		t.Errorf("Expected no interactions from empty store, got %d", len(report.Interactions))
	}
	if !floatEquals(report.RiskScore, 0) {
		t.Errorf("Expected risk 0, got %v", report.RiskScore)
	}
	if !report.IsSafe {
		t.Error("Expected is_safe=true at risk 0")
	}
}

func TestAnalyzeConfigurableThreshold(t *testing.T) {
	policy := DefaultPolicy()
	policy.SafetyThreshold = 80

	analyzer := NewAnalyzer(defaultStore(t), policy, DefaultRuleSet())
	report, err := analyzer.Analyze(Patient{Age: 45}, []Drug{{Name: "warfarin"}, {Name: "aspirin"}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// Risk 75 is below the raised threshold.
	if !report.IsSafe {
		t.Error("Expected is_safe=true with threshold 80 and risk 75")
	}
}
