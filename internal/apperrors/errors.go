package apperrors

import "errors"

// Sentinel errors for the failure modes the API distinguishes. Layers wrap
// these with fmt.Errorf("...: %w", ...) and handlers map them to HTTP codes
// with errors.Is. Anything that matches none of them is treated as a storage
// or infrastructure failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
)
