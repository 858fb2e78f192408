package services

import "errors"

// Sentinel errors for the booking and settlement flows. Handlers map these
// to HTTP statuses and stable machine-readable codes; anything else is
// treated as an internal failure and not leaked to callers.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("not authorized")
	ErrValidation        = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrAlreadyProcessed  = errors.New("already processed")
	ErrSignatureMismatch = errors.New("invalid payment signature")
	ErrGateway           = errors.New("payment gateway failure")
)
