package handlers

import (
	"errors"
	"net/http"

	"prediction-engine/internal/services"
)

// statusForError maps domain error kinds to HTTP statuses. Validation
// errors carry their own actionable message; infrastructure failures
// collapse to a generic retryable response.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrPredictionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrBetOutOfRange),
		errors.Is(err, services.ErrInsufficientBalance):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrPredictionNotOpen),
		errors.Is(err, services.ErrDuplicateWager),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Temporary failure, please try again"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}
