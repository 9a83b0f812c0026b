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
	// Retryable tells clients the same request may succeed later.
	Retryable bool `json:"retryable,omitempty"`
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
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrUnknownCourse      = New("UNKNOWN_COURSE", http.StatusBadRequest, "unknown course")
	ErrInvalidPreference  = New("INVALID_PREFERENCE", http.StatusBadRequest, "invalid preference")
	ErrNoSections         = New("NO_SECTIONS", http.StatusBadRequest, "course has no available sections")
	ErrSearchTimeout      = New("SEARCH_TIMEOUT", http.StatusServiceUnavailable, "schedule search timed out, reduce the course count or retry")
	ErrCatalogUnavailable = New("CATALOG_UNAVAILABLE", http.StatusServiceUnavailable, "course catalog unavailable")
	ErrUnsupportedFormat  = New("UNSUPPORTED_FORMAT", http.StatusBadRequest, "unsupported export format")
	ErrLinkInvalid        = New("LINK_INVALID", http.StatusForbidden, "download link is invalid")
	ErrLinkExpired        = New("LINK_EXPIRED", http.StatusGone, "download link has expired")
)

// ErrCacheMiss signals that a cache key was not present.
var ErrCacheMiss = errors.New("cache miss")

func init() {
	ErrSearchTimeout.Retryable = true
	ErrCatalogUnavailable.Retryable = true
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
