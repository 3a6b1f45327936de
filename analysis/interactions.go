package analysis

import (
	"fmt"
	"sort"

	"github.com/giygas/prescriptions-api/formulary"
)

// Detector finds pairwise drug interactions, flags condition-based
// contraindications and computes the aggregate risk score.
type Detector struct {
	store  Store
	policy Policy
	rules  RuleSet
}

// NewDetector creates an interaction detector over the given store.
func NewDetector(store Store, policy Policy, rules RuleSet) *Detector {
	return &Detector{store: store, policy: policy, rules: rules}
}

// Detect returns all known interactions among the given drugs, most severe
// first. The sort is stable: ties keep the store's return order.
func (d *Detector) Detect(drugNames []string) []Interaction {
	records := d.store.InteractionsBetween(drugNames)

	interactions := make([]Interaction, 0, len(records))
	for _, record := range records {
		interactions = append(interactions, Interaction{
			Drug1:       record.Drug1,
			Drug2:       record.Drug2,
			Severity:    record.Severity,
			Description: record.Description,
			Mechanism:   record.Mechanism,
			Management:  record.Management,
		})
	}

	sort.SliceStable(interactions, func(i, j int) bool {
		return d.policy.severityWeight(interactions[i].Severity) > d.policy.severityWeight(interactions[j].Severity)
	})

	return interactions
}

// CheckContraindications emits a warning for every (drug, condition) pair
// present in the contraindication rule table. Labels match exactly after
// normalization; no synonym mapping is attempted.
func (d *Detector) CheckContraindications(drugNames []string, conditions []string) []string {
	var warnings []string

	for _, drug := range drugNames {
		contraindicated := d.rules.Contraindications[formulary.NormalizeName(drug)]
		if len(contraindicated) == 0 {
			continue
		}
		for _, condition := range conditions {
			for _, label := range contraindicated {
				if formulary.NormalizeName(condition) == formulary.NormalizeName(label) {
					warnings = append(warnings, fmt.Sprintf("%s is contraindicated in %s", drug, condition))
				}
			}
		}
	}

	return warnings
}

// RiskScore returns the normalized mean severity of the interactions as a
// percentage in [0,100]. Empty input scores 0. One contraindicated
// interaction scores 100; one mild plus one severe scores 50.
func (d *Detector) RiskScore(interactions []Interaction) float64 {
	if len(interactions) == 0 {
		return 0
	}

	maxWeight := d.policy.maxSeverityWeight()
	if maxWeight == 0 {
		return 0
	}

	var total float64
	for _, interaction := range interactions {
		total += d.policy.severityWeight(interaction.Severity)
	}

	return total / (float64(len(interactions)) * maxWeight) * 100
}
