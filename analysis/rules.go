package analysis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/giygas/prescriptions-api/formulary"
)

// RuleSet holds the static clinical rule tables as data so they can be
// replaced without redeploying the evaluator. All drug and condition keys
// are matched against normalized (lowercased) input.
//
// Note: the contraindication table uses the label "renal_failure" for
// metformin while the advisory table uses "renal_disease". The labels are
// kept literally as provided; unifying them is a product decision.
type RuleSet struct {
	// Contraindications maps a drug to the conditions it must not be
	// prescribed with. Distinct from pairwise interactions.
	Contraindications map[string][]string `json:"contraindications"`

	// TherapeuticEquivalents maps a drug to drugs with comparable
	// clinical effect.
	TherapeuticEquivalents map[string][]string `json:"therapeutic_equivalents"`

	// ConditionSubstitutions maps condition -> drug -> preferred
	// substitute for patients with that condition.
	ConditionSubstitutions map[string]map[string]string `json:"condition_substitutions"`

	// ConditionAdvisories maps a condition to dosing advisory text.
	ConditionAdvisories map[string]string `json:"condition_advisories"`

	// SafetyKeywords are the terms the alternative ranking counts in
	// safety profile texts.
	SafetyKeywords []string `json:"safety_keywords"`
}

// DefaultRuleSet returns the built-in rule tables.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Contraindications: map[string][]string{
			"warfarin":       {"active_bleeding", "pregnancy"},
			"metformin":      {"renal_failure", "heart_failure"},
			"nsaids":         {"peptic_ulcer", "renal_disease"},
			"ace_inhibitors": {"pregnancy", "hyperkalemia"},
		},
		TherapeuticEquivalents: map[string][]string{
			"aspirin":    {"clopidogrel", "ticagrelor"},
			"warfarin":   {"rivaroxaban", "apixaban", "dabigatran"},
			"metformin":  {"glipizide", "glyburide"},
			"lisinopril": {"losartan", "valsartan"},
			"omeprazole": {"lansoprazole", "pantoprazole"},
		},
		ConditionSubstitutions: map[string]map[string]string{
			"pregnancy": {
				"warfarin":       "heparin",
				"ace_inhibitors": "methyldopa",
				"statins":        "bile_acid_sequestrants",
			},
			"renal_disease": {
				"metformin": "insulin",
				"nsaids":    "acetaminophen",
			},
		},
		ConditionAdvisories: map[string]string{
			"renal_disease":   "Reduce dose by 50% in renal impairment",
			"hepatic_disease": "Use with caution in liver disease",
			"heart_failure":   "Monitor fluid status closely",
		},
		SafetyKeywords: []string{"safer", "better", "reduced risk", "well-tolerated"},
	}
}

// LoadRuleSet reads rule tables from a JSON file. A table missing from the
// file keeps its default; a missing file returns the defaults unchanged.
func LoadRuleSet(path string) (RuleSet, error) {
	rules := DefaultRuleSet()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return rules, fmt.Errorf("reading rule file %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &rules); err != nil {
		return DefaultRuleSet(), fmt.Errorf("parsing rule file %s: %w", path, err)
	}

	return rules.normalized(), nil
}

// normalized rewrites all drug and condition keys through the formulary
// name normalization so rule lookups match the rest of the pipeline.
func (r RuleSet) normalized() RuleSet {
	out := RuleSet{
		Contraindications:      make(map[string][]string, len(r.Contraindications)),
		TherapeuticEquivalents: make(map[string][]string, len(r.TherapeuticEquivalents)),
		ConditionSubstitutions: make(map[string]map[string]string, len(r.ConditionSubstitutions)),
		ConditionAdvisories:    make(map[string]string, len(r.ConditionAdvisories)),
		SafetyKeywords:         r.SafetyKeywords,
	}
	for drug, conditions := range r.Contraindications {
		out.Contraindications[formulary.NormalizeName(drug)] = conditions
	}
	for drug, equivalents := range r.TherapeuticEquivalents {
		out.TherapeuticEquivalents[formulary.NormalizeName(drug)] = equivalents
	}
	for condition, subs := range r.ConditionSubstitutions {
		normalized := make(map[string]string, len(subs))
		for drug, alternative := range subs {
			normalized[formulary.NormalizeName(drug)] = alternative
		}
		out.ConditionSubstitutions[formulary.NormalizeName(condition)] = normalized
	}
	for condition, advisory := range r.ConditionAdvisories {
		out.ConditionAdvisories[formulary.NormalizeName(condition)] = advisory
	}
	return out
}
