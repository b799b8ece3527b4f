package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the addressed notification does not exist (or is
// not visible to the caller, which is deliberately indistinguishable).
var ErrNotFound = errors.New("notification not found")

// ValidationError is used to indicate a missing or malformed field on insert.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StorageError wraps connectivity/constraint failures from the store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
