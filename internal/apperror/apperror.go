// Package apperror defines the domain error taxonomy shared by all layers.
//
// Services return these errors; the HTTP layer maps them to status codes.
// The taxonomy mirrors how failures actually differ for the caller:
//
//   - validation   → the client sent bad input (400)
//   - unauthorized → no valid session (401)
//   - not found    → the resource doesn't exist (404)
//   - conflict     → the resource already exists (409)
//   - upstream     → an external model call failed (500)
//
// Anything that doesn't match is an internal error.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream error")
)

// AppError pairs a sentinel kind with a human-readable message.
//
// errors.Is(err, ErrValidation) works on any error chain containing an
// AppError because Unwrap exposes the sentinel. errors.As extracts the
// AppError itself when the handler needs the message.
type AppError struct {
	Err     error  // one of the sentinel kinds above
	Message string // human-readable, safe to show the client
	Field   string // optional: the request field that caused it
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports bad client input on a specific field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized reports a missing or invalid session.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// NotFound reports that a resource doesn't exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Conflict reports that a unique resource already exists.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Upstream wraps a failure from an external model client.
//
// The original design surfaces the raw upstream error text to the client
// ("Something went wrong: ..."), so the message embeds it verbatim — no
// classification, no redaction.
func Upstream(cause error) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: fmt.Sprintf("Something went wrong: %v", cause),
	}
}
