package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"github.com/Adilzhan2201/Special_Network/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps domain errors to HTTP status codes per the taxonomy:
// conflicts are client errors and never retried, transient store
// failures surface as 500 after the service layer's own retries.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrNotFriends):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrAlreadyFriends),
		errors.Is(err, apperrors.ErrDuplicateRequest),
		errors.Is(err, apperrors.ErrAlreadyProcessed),
		errors.Is(err, apperrors.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrSelfReference),
		errors.Is(err, apperrors.ErrInvalidReaction),
		errors.Is(err, apperrors.ErrMissingContent):
		status = http.StatusBadRequest
	default:
		logger.Log.WithError(err).Error("Internal error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error"})
		return
	}
	writeJSON(w, status, map[string]string{"message": err.Error()})
}
