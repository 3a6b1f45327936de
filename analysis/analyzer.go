package analysis

import (
	"errors"
	"fmt"

	"github.com/giygas/prescriptions-api/logging"
)

var (
	// ErrNoDrugs is returned when the request carries no resolvable drugs.
	// This is a caller-side input problem, not an internal failure.
	ErrNoDrugs = errors.New("no drugs found in the prescription")

	// ErrAnalysisFailed is returned when the pipeline hits an unexpected
	// internal failure. The report is withheld entirely; partial results
	// are never returned.
	ErrAnalysisFailed = errors.New("prescription analysis failed")
)

// Analyzer composes the three rule components into one report and decides
// the overall safety verdict.
type Analyzer struct {
	detector   *Detector
	calculator *Calculator
	finder     *Finder
	policy     Policy
}

// NewAnalyzer wires the rule components over one store with one policy and
// rule set. The store must not be mutated after construction; the analyzer
// itself is stateless across calls and safe for concurrent use.
func NewAnalyzer(store Store, policy Policy, rules RuleSet) *Analyzer {
	return &Analyzer{
		detector:   NewDetector(store, policy, rules),
		calculator: NewCalculator(store, policy, rules),
		finder:     NewFinder(store, rules),
		policy:     policy,
	}
}

// Analyze runs the full pipeline for one prescription and returns a fresh
// report. Any panic inside the rule components is caught, logged with
// context, and surfaced as ErrAnalysisFailed.
func (a *Analyzer) Analyze(patient Patient, drugs []Drug) (report *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Prescription analysis panicked", "panic", fmt.Sprintf("%v", r))
			report = nil
			err = ErrAnalysisFailed
		}
	}()

	if len(drugs) == 0 {
		return nil, ErrNoDrugs
	}

	drugNames := make([]string, len(drugs))
	for i, drug := range drugs {
		drugNames[i] = drug.Name
	}

	interactions := a.detector.Detect(drugNames)

	recommendations := a.calculator.Calculate(patient, drugNames)

	interactionPairs := make([]string, len(interactions))
	for i, interaction := range interactions {
		interactionPairs[i] = interaction.Drug1 + "-" + interaction.Drug2
	}
	alternatives := a.finder.Find(drugNames, patient, interactionPairs)

	warnings := a.detector.CheckContraindications(drugNames, patient.Conditions)

	riskScore := a.detector.RiskScore(interactions)

	return &Report{
		Interactions:          interactions,
		DosageRecommendations: recommendations,
		Alternatives:          alternatives,
		Warnings:              warnings,
		RiskScore:             riskScore,
		IsSafe:                riskScore < a.policy.SafetyThreshold,
	}, nil
}
