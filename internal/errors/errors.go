// Package errors defines the domain error taxonomy returned by services.
//
// Services return *Error values; HTTP controllers map them to status codes:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    respondNotFound(c, "book")
//	}
//
// Duplicate inserts are absorbed by the store (ON CONFLICT DO NOTHING) and
// never surface as errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-exported so callers need a single errors import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation Code = "VALIDATION"       // caller supplied malformed input
	CodeNotFound   Code = "NOT_FOUND"        // single-entity lookup matched nothing
	CodeUpstream   Code = "UPSTREAM_FAILURE" // external search, catalog or AI call failed
	CodeStorage    Code = "STORAGE_FAILURE"  // store connectivity or query failure
	CodeInternal   Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a human-readable message and an
// optional underlying cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Sentinels for errors.Is.
var (
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUpstream   = &Error{Code: CodeUpstream, Message: "upstream failure"}
	ErrStorage    = &Error{Code: CodeStorage, Message: "storage failure"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails carries per-field messages in Details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Upstream wraps a failed call to an external service.
func Upstream(err error, msg string) *Error {
	return Wrap(err, CodeUpstream, msg)
}

// Storage wraps a failed store operation.
func Storage(err error, msg string) *Error {
	return Wrap(err, CodeStorage, msg)
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
