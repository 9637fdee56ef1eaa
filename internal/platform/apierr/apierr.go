package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status and a stable machine code alongside the
// underlying cause. Handlers unwrap it at the request boundary; anything
// that is not an *Error is treated as a storage failure.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Unauthenticated(msg string) *Error {
	return New(http.StatusUnauthorized, "unauthenticated", errors.New(msg))
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, "forbidden", errors.New(msg))
}

func Invalid(msg string) *Error {
	return New(http.StatusBadRequest, "invalid_request", errors.New(msg))
}

func Invalidf(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, "invalid_request", fmt.Errorf(format, args...))
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, "not_found", errors.New(msg))
}

// Conflict reports a duplicate-resource failure. The source contract maps
// conflicts to 400, echoing enough state for the client to react.
func Conflict(msg string) *Error {
	return New(http.StatusBadRequest, "conflict", errors.New(msg))
}

// Storage wraps an unexpected store error. The wrapped cause is logged
// server-side; clients only ever see the generic message.
func Storage(err error) *Error {
	return New(http.StatusInternalServerError, "storage_failure", err)
}

// Upstream wraps a failure from an external catalog or provider.
func Upstream(err error) *Error {
	return New(http.StatusBadGateway, "upstream_unavailable", err)
}

// From returns err as an *Error, wrapping unknown errors as Storage.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Storage(err)
}
