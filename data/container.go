// Package data provides thread-safe storage for the formulary reference
// dataset. The DataContainer holds each relation behind an atomic pointer so
// a scheduled reload swaps in a complete new snapshot with zero downtime,
// and readers never need locking: after a swap the old snapshot is simply
// garbage collected once the last reader drops it.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/formulary/entities"
	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the formulary relations with atomic pointers for
// zero-downtime updates.
type DataContainer struct {
	interactions    atomic.Value // map[string]entities.InteractionRecord, keyed by pair key
	dosages         atomic.Value // map[string]entities.DosageRecord, keyed by (drug, age band)
	alternatives    atomic.Value // map[string][]entities.AlternativeRecord, keyed by original drug
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty relations.
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.interactions.Store(make(map[string]entities.InteractionRecord))
	dc.dosages.Store(make(map[string]entities.DosageRecord))
	dc.alternatives.Store(make(map[string][]entities.AlternativeRecord))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetInteractions returns the interaction relation keyed by pair key.
func (dc *DataContainer) GetInteractions() map[string]entities.InteractionRecord {
	if v := dc.interactions.Load(); v != nil {
		if interactions, ok := v.(map[string]entities.InteractionRecord); ok {
			return interactions
		}
	}

	logging.Warn("Interactions relation is empty or invalid")
	return make(map[string]entities.InteractionRecord)
}

// GetDosages returns the dosage relation keyed by (drug, age band).
func (dc *DataContainer) GetDosages() map[string]entities.DosageRecord {
	if v := dc.dosages.Load(); v != nil {
		if dosages, ok := v.(map[string]entities.DosageRecord); ok {
			return dosages
		}
	}

	logging.Warn("Dosages relation is empty or invalid")
	return make(map[string]entities.DosageRecord)
}

// GetAlternatives returns the alternatives relation keyed by original drug.
func (dc *DataContainer) GetAlternatives() map[string][]entities.AlternativeRecord {
	if v := dc.alternatives.Load(); v != nil {
		if alternatives, ok := v.(map[string][]entities.AlternativeRecord); ok {
			return alternatives
		}
	}

	logging.Warn("Alternatives relation is empty or invalid")
	return make(map[string][]entities.AlternativeRecord)
}

// InteractionsBetween returns the matching record for every unordered pair
// drawn from drugNames, in either orientation, without returning the same
// pair twice. Names are matched case-insensitively.
func (dc *DataContainer) InteractionsBetween(drugNames []string) []entities.InteractionRecord {
	interactions := dc.GetInteractions()
	if len(interactions) == 0 || len(drugNames) < 2 {
		return nil
	}

	var found []entities.InteractionRecord
	seen := make(map[string]bool)
	for i, drug1 := range drugNames {
		for _, drug2 := range drugNames[i+1:] {
			key := formulary.PairKey(drug1, drug2)
			if seen[key] {
				continue
			}
			if record, ok := interactions[key]; ok {
				seen[key] = true
				found = append(found, record)
			}
		}
	}
	return found
}

// DosageFor returns the dosage record for an exact (drug, age band) match.
func (dc *DataContainer) DosageFor(drugName string, ageBand entities.AgeBand) (entities.DosageRecord, bool) {
	record, ok := dc.GetDosages()[formulary.DosageKey(drugName, string(ageBand))]
	return record, ok
}

// AlternativesFor returns all alternative records for a drug, empty if none.
func (dc *DataContainer) AlternativesFor(drugName string) []entities.AlternativeRecord {
	return dc.GetAlternatives()[formulary.NormalizeName(drugName)]
}

// GetLastUpdated returns the timestamp of the last data update.
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress.
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time.
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time.
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically swaps in a complete new snapshot of all relations.
func (dc *DataContainer) UpdateData(interactions map[string]entities.InteractionRecord,
	dosages map[string]entities.DosageRecord,
	alternatives map[string][]entities.AlternativeRecord) {

	dc.interactions.Store(interactions)
	dc.dosages.Store(dosages)
	dc.alternatives.Store(alternatives)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data update operation.
// Returns true if update can proceed, false if another update is in progress.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation.
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
