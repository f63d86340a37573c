package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for callers that branch on failure mode.
type Kind string

const (
	// KindNotFound means a referenced table or view does not exist.
	// The request is aborted and no state has changed.
	KindNotFound Kind = "not_found"

	// KindFieldNotFound means a creation batch referenced at least one
	// unknown field id. The entire batch is rejected, nothing inserted.
	KindFieldNotFound Kind = "field_not_found"

	// KindStorage wraps any failure raised by the storage execution client.
	// It is propagated unchanged; rollback is the enclosing scope's job.
	KindStorage Kind = "storage_execution"
)

// AppError represents a standardized application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Internal error for logging
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a not_found error
func NotFound(message string) *AppError {
	return New(KindNotFound, message, nil)
}

// FieldNotFound creates a field_not_found error
func FieldNotFound(message string) *AppError {
	return New(KindFieldNotFound, message, nil)
}

// Storage wraps a storage execution client failure
func Storage(err error) *AppError {
	return New(KindStorage, "storage execution failed", err)
}

// IsKind reports whether err is (or wraps) an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
