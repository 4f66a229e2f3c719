package lib

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers both absent records and records owned by someone
	// else, so the API never leaks whether another user's alert exists.
	ErrNotFound = errors.New("not found")

	ErrQuotaExceeded = errors.New("active alert quota reached for plan")
)

// ValidationError rejects a bad alert definition before anything is
// persisted.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func validationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
