package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/giygas/prescriptions-api/formulary"
)

// Finder proposes substitute drugs from the formulary, the therapeutic
// equivalence table and the condition-specific substitution table.
type Finder struct {
	store Store
	rules RuleSet
}

// NewFinder creates an alternative finder over the given store.
func NewFinder(store Store, rules RuleSet) *Finder {
	return &Finder{store: store, rules: rules}
}

// Find unions the three alternative sources per drug, preserving insertion
// order and without deduplicating across sources: a drug may legitimately be
// offered as an alternative for several distinct reasons.
//
// interactionPairs carries the detected interaction pairs for context. It is
// informational only today, reserved as a filtering extension point.
func (f *Finder) Find(drugNames []string, patient Patient, interactionPairs []string) []Alternative {
	_ = interactionPairs

	var alternatives []Alternative
	for _, drug := range drugNames {
		for _, record := range f.store.AlternativesFor(drug) {
			alternatives = append(alternatives, Alternative{
				OriginalDrug:    drug,
				AlternativeDrug: record.Alternative,
				Reason:          record.Reason,
				SafetyProfile:   record.SafetyProfile,
			})
		}

		for _, equivalent := range f.rules.TherapeuticEquivalents[formulary.NormalizeName(drug)] {
			alternatives = append(alternatives, Alternative{
				OriginalDrug:    drug,
				AlternativeDrug: equivalent,
				Reason:          "Therapeutic equivalent",
				SafetyProfile:   "Similar efficacy with different safety profile",
			})
		}

		for _, condition := range patient.Conditions {
			substitutions, ok := f.rules.ConditionSubstitutions[formulary.NormalizeName(condition)]
			if !ok {
				continue
			}
			if substitute, ok := substitutions[formulary.NormalizeName(drug)]; ok {
				alternatives = append(alternatives, Alternative{
					OriginalDrug:    drug,
					AlternativeDrug: substitute,
					Reason:          fmt.Sprintf("Safer in %s", condition),
					SafetyProfile:   fmt.Sprintf("Better safety profile for patients with %s", condition),
				})
			}
		}
	}

	return alternatives
}

// Rank orders alternatives by a safety-keyword heuristic: the count of
// configured keywords appearing case-insensitively in the safety profile
// text, descending. The sort is stable, so equal scores keep input order.
func (f *Finder) Rank(alternatives []Alternative, patient Patient) []Alternative {
	_ = patient

	ranked := make([]Alternative, len(alternatives))
	copy(ranked, alternatives)

	sort.SliceStable(ranked, func(i, j int) bool {
		return f.safetyScore(ranked[i]) > f.safetyScore(ranked[j])
	})

	return ranked
}

func (f *Finder) safetyScore(alternative Alternative) int {
	profile := strings.ToLower(alternative.SafetyProfile)
	score := 0
	for _, keyword := range f.rules.SafetyKeywords {
		if strings.Contains(profile, strings.ToLower(keyword)) {
			score++
		}
	}
	return score
}
