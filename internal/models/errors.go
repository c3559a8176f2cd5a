package models

import (
	"errors"
	"fmt"
)

// ErrBoxNotFound is returned when a box identifier is unknown to the catalog.
var ErrBoxNotFound = errors.New("box not found")

// ValidationError reports bad input: an out-of-range fill level, a missing
// catalog column or a malformed field. It is surfaced to the caller
// immediately and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceWarning signals that a durable write or read failed while the
// in-memory effect of the operation still completed. Callers must surface
// it to the user but must not roll back the operation.
type PersistenceWarning struct {
	Op  string
	Err error
}

func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("persistence degraded during %s: %v", w.Op, w.Err)
}

func (w *PersistenceWarning) Unwrap() error { return w.Err }

// IsPersistenceWarning reports whether err is a PersistenceWarning.
func IsPersistenceWarning(err error) bool {
	var pw *PersistenceWarning
	return errors.As(err, &pw)
}
