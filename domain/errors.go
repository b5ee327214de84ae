package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	// ErrCodeNotFound marks commands targeting an entity with no prior stream.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalid marks business-rule violations rejected before append.
	ErrCodeInvalid ErrorCode = "INVALID"
	// ErrCodeStorage marks event log or database I/O failures. Fatal, no partial state.
	ErrCodeStorage ErrorCode = "STORAGE"
	// ErrCodeSchema marks an unrecognized event kind during replay. A versioning defect.
	ErrCodeSchema ErrorCode = "SCHEMA"
	// ErrCodeHandler marks dispatch-time consumer failures. Contained, never
	// surfaced to the command caller.
	ErrCodeHandler  ErrorCode = "HANDLER"
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrProductNotFound  = NewError(ErrCodeNotFound, "product not found")
	ErrSupplierNotFound = NewError(ErrCodeNotFound, "supplier not found")
	ErrInvalidPayload   = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
