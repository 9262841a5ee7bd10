// Package apperr defines the error taxonomy every handler boundary converts
// lower-level failures into before responding. No raw internal detail crosses
// the boundary except the storage-service detail embedded in UploadFailed.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for HTTP mapping.
type Kind int

const (
	Validation Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	UploadFailed
	Internal
)

// Error carries a kind, a client-safe message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validationf builds a Validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, defaulting to Internal for anything
// that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// ClientMessage returns the message safe to put in a response body. Unknown
// errors collapse to a generic message so persistence detail never leaks.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps a failure to its response status. Missing resources are
// always 404, whichever lookup surfaced them.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, UploadFailed:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
