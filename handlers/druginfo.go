package handlers

import (
	"sort"
	"strings"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/formulary/entities"
	"github.com/giygas/prescriptions-api/interfaces"
)

// DrugInfoResponse aggregates everything the formulary knows about one drug
type DrugInfoResponse struct {
	Name         string                       `json:"name"`
	Interactions []entities.InteractionRecord `json:"interactions"`
	Dosages      []entities.DosageRecord      `json:"dosages"`
	Alternatives []entities.AlternativeRecord `json:"alternatives"`
}

// collectDrugInfo gathers all relation rows mentioning the drug. Returns nil
// when the formulary has no record of the drug at all.
func collectDrugInfo(store interfaces.DataStore, name string) *DrugInfoResponse {
	normalized := formulary.NormalizeName(name)

	info := &DrugInfoResponse{
		Name:         normalized,
		Interactions: []entities.InteractionRecord{},
		Dosages:      []entities.DosageRecord{},
		Alternatives: []entities.AlternativeRecord{},
	}

	for _, record := range store.GetInteractions() {
		if formulary.NormalizeName(record.Drug1) == normalized ||
			formulary.NormalizeName(record.Drug2) == normalized {
			info.Interactions = append(info.Interactions, record)
		}
	}

	for key, record := range store.GetDosages() {
		if drug, _, found := strings.Cut(key, "|"); found && drug == normalized {
			info.Dosages = append(info.Dosages, record)
		}
	}

	info.Alternatives = append(info.Alternatives, store.AlternativesFor(name)...)

	// Map iteration order is random; keep the response stable.
	sort.Slice(info.Interactions, func(i, j int) bool {
		return formulary.PairKey(info.Interactions[i].Drug1, info.Interactions[i].Drug2) <
			formulary.PairKey(info.Interactions[j].Drug1, info.Interactions[j].Drug2)
	})
	sort.Slice(info.Dosages, func(i, j int) bool {
		return info.Dosages[i].AgeBand < info.Dosages[j].AgeBand
	})

	if len(info.Interactions) == 0 && len(info.Dosages) == 0 && len(info.Alternatives) == 0 {
		return nil
	}
	return info
}
