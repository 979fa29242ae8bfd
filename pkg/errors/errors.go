package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrInvalidScope = New("INVALID_SCOPE", http.StatusBadRequest, "dashboard scope could not be resolved")
	ErrDataAccess   = New("DATA_ACCESS_ERROR", http.StatusInternalServerError, "failed to load dashboard data")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// DataAccessError reports a failed read against one named collection.
type DataAccessError struct {
	Collection string
	Err        error
}

// NewDataAccess wraps err as a read failure on collection. A nil err yields nil.
func NewDataAccess(collection string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Collection: collection, Err: err}
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Collection, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// InvalidScopeError reports a request whose role or identity cannot be mapped onto a scope.
type InvalidScopeError struct {
	Role   string
	Reason string
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid scope for role %q: %s", e.Role, e.Reason)
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var dataErr *DataAccessError
	if errors.As(err, &dataErr) {
		return Wrap(err, ErrDataAccess.Code, ErrDataAccess.Status, fmt.Sprintf("failed to load %s", dataErr.Collection))
	}
	var scopeErr *InvalidScopeError
	if errors.As(err, &scopeErr) {
		return Wrap(err, ErrInvalidScope.Code, ErrInvalidScope.Status, scopeErr.Error())
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
