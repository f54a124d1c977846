package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error so handlers can map it to an HTTP
// status without inspecting messages.
type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindNotFound
	KindConflict
	KindInternal
)

// Error is the single error type crossing the operation boundary.
// Message is client-safe; Err keeps the underlying cause for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected failure; the client only ever sees the generic
// message, the cause stays attached for logs.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the Kind, defaulting to KindInternal for unknown errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// Status maps an error to its HTTP status code. Conflicts surface as 400,
// matching the behaviour of the store-schema validation they originate from.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Wrap normalises err into an *Error, treating anything untyped as internal.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
