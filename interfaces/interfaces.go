// Package interfaces defines core abstractions for the prescriptions API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/prescriptions-api/formulary/entities"
)

// DataStore defines the contract for reference-data storage. It provides
// thread-safe access to the formulary relations with atomic snapshot swaps,
// so readers never observe a partially updated dataset.
type DataStore interface {
	// Lookup contract used by the analysis core
	InteractionsBetween(drugNames []string) []entities.InteractionRecord
	DosageFor(drugName string, ageBand entities.AgeBand) (entities.DosageRecord, bool)
	AlternativesFor(drugName string) []entities.AlternativeRecord

	// Raw relation access
	GetInteractions() map[string]entities.InteractionRecord
	GetDosages() map[string]entities.DosageRecord
	GetAlternatives() map[string][]entities.AlternativeRecord

	GetLastUpdated() time.Time
	IsUpdating() bool
	SetServerStartTime(startTime time.Time)
	GetServerStartTime() time.Time

	// Data update methods
	UpdateData(interactions map[string]entities.InteractionRecord,
		dosages map[string]entities.DosageRecord,
		alternatives map[string][]entities.AlternativeRecord)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for loading the formulary relations from an
// external source and indexing them by normalized drug name.
type Parser interface {
	ParseAll() (map[string]entities.InteractionRecord,
		map[string]entities.DosageRecord,
		map[string][]entities.AlternativeRecord, error)
}

// Scheduler defines the contract for scheduled formulary reloads and
// staleness monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// Validator defines the contract for request input validation.
type Validator interface {
	// ValidateInput screens free-form user input for dangerous content
	ValidateInput(input string) error

	// ValidateDrugName checks a drug name for shape and dangerous content
	ValidateDrugName(name string) error

	// ValidateAge checks the patient age invariant (age >= 0)
	ValidateAge(age int) error

	// ValidateWeight checks the patient weight invariant (weight > 0)
	ValidateWeight(weight float64) error
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	AnalyzePrescription(w http.ResponseWriter, r *http.Request)
	ExtractDrugs(w http.ResponseWriter, r *http.Request)
	DrugInfo(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status with the HTTP code
	// it should be served with
	HealthCheck() (status string, data map[string]any, httpStatus int)

	// CalculateNextReload returns the next scheduled formulary reload time
	CalculateNextReload() time.Time
}
