// Package health provides health checking functionality for the prescriptions API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/prescriptions-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore: dataStore,
	}
}

// HealthCheck returns HTTP-specific health data.
// Used by the /health HTTP endpoint.
//
// Empty relations are degraded, not fatal: the formulary loader degrades
// missing relations to empty maps and the analysis pipeline keeps serving
// with whatever data it has.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	interactions := h.dataStore.GetInteractions()
	dosages := h.dataStore.GetDosages()
	alternatives := h.dataStore.GetAlternatives()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := time.Since(lastUpdate)

	switch {
	case lastUpdate.IsZero():
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case len(interactions) == 0 && len(dosages) == 0 && len(alternatives) == 0:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case len(interactions) == 0 || len(dosages) == 0 || len(alternatives) == 0:
		status = "degraded"
		httpStatus = http.StatusOK

	case isUpdating && dataAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"interactions":   len(interactions),
		"dosages":        len(dosages),
		"alternatives":   len(alternatives),
		"is_updating":    isUpdating,
		"next_reload":    h.CalculateNextReload().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// CalculateNextReload returns the next scheduled formulary reload time
func (h *HealthCheckerImpl) CalculateNextReload() time.Time {
	now := time.Now()

	// Get today's 6:00 AM and 6:00 PM times
	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	sixPM := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	// If current time is before 6:00 AM, next reload is 6:00 AM today
	if now.Before(sixAM) {
		return sixAM
	}

	// If current time is between 6:00 AM and 6:00 PM, next reload is 6:00 PM today
	if now.Before(sixPM) {
		return sixPM
	}

	// If current time is after 6:00 PM, next reload is 6:00 AM tomorrow
	return sixAM.AddDate(0, 0, 1)
}
