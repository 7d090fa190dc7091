package fileserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/filestore/pkg/storage"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// renderStorageError maps storage errors to HTTP responses.
func renderStorageError(w http.ResponseWriter, err error) {
	var verr *storage.FileValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   verr.Code,
			Message: verr.Message,
			Details: verr.Details,
		})
		return
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "file not found")
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, storage.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "invalid_name", "invalid file name")
	case errors.Is(err, storage.ErrNameTooLong):
		writeError(w, http.StatusBadRequest, "name_too_long", "no available name within length limit")
	case errors.Is(err, storage.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access_denied", "access denied")
	case errors.Is(err, storage.ErrURLNotConfigured):
		writeError(w, http.StatusNotImplemented, "url_not_configured", "storage has no public URL")
	default:
		writeError(w, http.StatusInternalServerError, "storage_error", "storage operation failed")
	}
}
