package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API error carrying the HTTP status it should be rendered with.
// Services return *Error for expected failure modes; anything else reaching
// the handler layer is treated as internal.
type Error struct {
	StatusCode int
	Message    string
	Details    []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsOperational reports whether the error is an expected, client-facing
// failure rather than an unexpected server-side one.
func (e *Error) IsOperational() bool {
	return e.StatusCode < http.StatusInternalServerError
}

func BadRequest(message string, details ...string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{StatusCode: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{StatusCode: http.StatusConflict, Message: message}
}

// Internal wraps an unexpected error. The cause is kept for server-side
// logging and never rendered to clients in production.
func Internal(message string, err error) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// From converts any error into an *Error, defaulting to internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("An unexpected error occurred.", err)
}
