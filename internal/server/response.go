package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/productapi"
)

// Error codes used in productapi.ErrorResponse bodies
const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeInternal   = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, productapi.ErrorResponse{
		Error:   code,
		Message: message,
		Field:   field,
	})
}

func writeValidationError(w http.ResponseWriter, message, field string) {
	writeError(w, http.StatusBadRequest, codeValidation, message, field)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, codeNotFound, message, "")
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Error("request failed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "an unexpected error occurred", "")
}
