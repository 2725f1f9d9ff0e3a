package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Ledger errors
	ErrNoEvents       = errors.New("no events recorded")
	ErrNothingToClear = errors.New("nothing to clear")

	// Baseball errors
	ErrNoSession     = errors.New("no active baseball session")
	ErrSessionExists = errors.New("baseball session already in progress")
)

// ValidationError reports a bad argument shape or value. It is always safe to
// show the message to the user, and the operation that produced it has not
// mutated any state.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf creates a ValidationError with a formatted message
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInformational reports whether err is one of the "nothing to do" sentinels
// that should be relayed to the user as information rather than a failure
func IsInformational(err error) bool {
	return errors.Is(err, ErrNoEvents) ||
		errors.Is(err, ErrNothingToClear) ||
		errors.Is(err, ErrNoSession) ||
		errors.Is(err, ErrSessionExists)
}
