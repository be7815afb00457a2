package services

import "errors"

// Validation error kinds surfaced to callers. These are never retried:
// only ErrStoreUnavailable signals a transient infrastructure failure.
var (
	ErrPredictionNotFound  = errors.New("prediction not found")
	ErrPredictionNotOpen   = errors.New("prediction is not open for betting")
	ErrInvalidOption       = errors.New("option does not belong to this prediction")
	ErrBetOutOfRange       = errors.New("bet amount is outside the allowed range")
	ErrInsufficientBalance = errors.New("bet amount exceeds current balance")
	ErrDuplicateWager      = errors.New("a wager already exists for this prediction")
	ErrInvalidTransition   = errors.New("prediction status does not allow this transition")
	ErrStoreUnavailable    = errors.New("store unavailable")
)
