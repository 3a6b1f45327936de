// Package handlers provides HTTP request handlers for the prescriptions API
// endpoints. This file implements the HTTPHandler interface with dependency
// injection.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/giygas/prescriptions-api/analysis"
	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
	"github.com/giygas/prescriptions-api/metrics"
	"github.com/giygas/prescriptions-api/textextract"
	"github.com/go-chi/chi/v5"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	analyzer      *analysis.Analyzer
	extractor     *textextract.Extractor
	validator     interfaces.Validator
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	dataStore interfaces.DataStore,
	analyzer *analysis.Analyzer,
	extractor *textextract.Extractor,
	validator interfaces.Validator,
	healthChecker interfaces.HealthChecker,
) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		analyzer:      analyzer,
		extractor:     extractor,
		validator:     validator,
		healthChecker: healthChecker,
	}
}

// AnalyzeRequest is the request body for the analyze-prescription endpoint.
// Drugs may be given structured, or as raw prescription text to extract from,
// or both; extraction only runs when no structured drugs are present.
type AnalyzeRequest struct {
	Patient analysis.Patient `json:"patient"`
	Drugs   []analysis.Drug  `json:"drugs"`
	RawText string           `json:"raw_text,omitempty"`
}

// ExtractRequest is the request body for the extract-drugs endpoint
type ExtractRequest struct {
	Text string `json:"text"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// AnalyzePrescription runs the full safety analysis for a prescription
func (h *HTTPHandlerImpl) AnalyzePrescription(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.ValidateAge(req.Patient.Age); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Patient.Weight != nil {
		if err := h.validator.ValidateWeight(*req.Patient.Weight); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	drugs := req.Drugs
	if len(drugs) == 0 && req.RawText != "" {
		if err := h.validator.ValidateInput(req.RawText); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		drugs = textextract.ToDrugs(h.extractor.Extract(req.RawText))
	}

	for _, drug := range drugs {
		if err := h.validator.ValidateDrugName(drug.Name); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	report, err := h.analyzer.Analyze(req.Patient, drugs)
	if err != nil {
		if errors.Is(err, analysis.ErrNoDrugs) {
			metrics.PrescriptionAnalysesTotal.WithLabelValues("error").Inc()
			h.RespondWithError(w, http.StatusBadRequest, "No drugs found in the prescription")
			return
		}
		logging.Error("Prescription analysis failed", "error", err)
		metrics.PrescriptionAnalysesTotal.WithLabelValues("error").Inc()
		h.RespondWithError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	verdict := "unsafe"
	if report.IsSafe {
		verdict = "safe"
	}
	metrics.PrescriptionAnalysesTotal.WithLabelValues(verdict).Inc()
	for _, interaction := range report.Interactions {
		metrics.InteractionsDetectedTotal.WithLabelValues(string(interaction.Severity)).Inc()
	}

	h.RespondWithJSON(w, http.StatusOK, report)
}

// ExtractDrugs extracts drug mentions from raw prescription text
func (h *HTTPHandlerImpl) ExtractDrugs(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing text")
		return
	}
	if err := h.validator.ValidateInput(req.Text); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	extracted := h.extractor.Extract(req.Text)

	// Always return 200 with results array (empty if no mentions)
	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"drugs": extracted,
		"count": len(extracted),
	})
}

// DrugInfo returns everything the formulary knows about one drug:
// interactions involving it, dosage rows per age group, and alternatives
func (h *HTTPHandlerImpl) DrugInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing drug name")
		return
	}
	if err := h.validator.ValidateDrugName(name); err != nil {
		logging.Warn("Unusual user input", "drugName", name)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	info := collectDrugInfo(h.dataStore, name)
	if info == nil {
		h.RespondWithError(w, http.StatusNotFound, "Drug not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, info)
}

// HealthCheck returns the health status of the API
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()
	data["status"] = status
	h.RespondWithJSON(w, httpStatus, data)
}
