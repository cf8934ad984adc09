package lifecycle

import "errors"

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when the row changed status underneath the caller.
	ErrConflict = errors.New("record was modified concurrently")
	// ErrValidation wraps bad input that was rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState is returned when an operation is not allowed in the row's current state.
	ErrInvalidState = errors.New("operation not allowed in current state")
)

// Unwrap lets callers match every TransitionError with errors.Is(err, ErrInvalidState).
func (e *TransitionError) Unwrap() error {
	return ErrInvalidState
}
