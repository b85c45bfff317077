package matches

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrPersistence is wrapped by every PersistenceError
	ErrPersistence = errors.New("snapshot persistence failed")
	// ErrLoad is wrapped by every LoadError
	ErrLoad = errors.New("snapshot load failed")
)

// ValidationError rejects a candidate match. Required is set when a mandatory field is missing.
type ValidationError struct {
	Field    string
	Message  string
	Required bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required", Required: true}
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError reports a durable slot that could not be read or written
type PersistenceError struct {
	Op  string // "read", "save" or "clear"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s snapshot: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// LoadError reports an unreadable snapshot at startup
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load snapshot: %v", e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }
