package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"evote-api/internal/domain"
	apperrors "evote-api/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	respondJSON(w, appErr.StatusCode, map[string]interface{}{
		"error": appErr,
	})
}

// respondError translates an engine error into the structured error envelope.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		respondAppError(w, appErr)
		return
	}

	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		respondAppError(w, apperrors.NewConflictError(err.Error()))
	case errors.Is(err, domain.ErrNotRegistered), errors.Is(err, domain.ErrNotFound):
		respondAppError(w, apperrors.NewNotFoundError(err.Error()))
	case errors.Is(err, domain.ErrInvalidCode), errors.Is(err, domain.ErrInvalidCredentials):
		respondAppError(w, apperrors.NewAuthenticationError(err.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		respondAppError(w, apperrors.NewAuthorizationError(err.Error()))
	default:
		respondAppError(w, apperrors.NewInternalError("Unexpected error", err))
	}
}

func respondValidationError(w http.ResponseWriter, message string) {
	respondAppError(w, apperrors.NewValidationError(message, nil))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondValidationError(w, "Invalid request body")
		return false
	}
	return true
}
