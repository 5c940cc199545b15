// Package api contains the HTTP layer: routing, request binding, and response formatting.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ─── Response envelope ────────────────────────────────────────────────────────

// envelope is the standard wrapper for all API responses.
// Success responses set `error` to nil; error responses set `data` to nil.
type envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// pageEnvelope is the wrapper for list endpoints. count is the number of items
// on this page; total is the filtered count across all pages.
type pageEnvelope struct {
	Data      any    `json:"data"`
	Count     int    `json:"count"`
	Total     int    `json:"total"`
	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// Error codes.
const (
	codeInvalidJSON     = "INVALID_JSON"
	codeInvalidParam    = "INVALID_PARAM"
	codeValidation      = "VALIDATION_ERROR"
	codeInvalidAction   = "INVALID_ACTION"
	codeNotFound        = "NOT_FOUND"
	codeAnalyzerError   = "ANALYZER_ERROR"
	codeInternalError   = "INTERNAL_ERROR"
	internalErrorReason = "an unexpected error occurred"
)

// ─── Response helpers ─────────────────────────────────────────────────────────

// writeJSON serialises v into the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Warn("api: failed to encode response", "status", status, "error", err)
	}
}

// ok writes a 200 response with the payload wrapped in the standard envelope.
func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

// page writes a 200 list response.
func page(w http.ResponseWriter, p pageEnvelope) {
	writeJSON(w, http.StatusOK, p)
}

// badRequest writes a 400 error response.
func badRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Error: &apiError{Code: code, Message: message}})
}

// notFound writes a 404 error response.
func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, envelope{Error: &apiError{Code: codeNotFound, Message: message}})
}

// badGateway writes a 502 error response for a failed upstream call.
func badGateway(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadGateway, envelope{Error: &apiError{Code: code, Message: message}})
}

// internalError writes a 500 error response.
func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, envelope{
		Error: &apiError{Code: codeInternalError, Message: internalErrorReason},
	})
}
