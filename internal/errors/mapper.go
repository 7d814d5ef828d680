// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Code classifies an engine error for callers and the transport layer.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidArgument
	CodeNotFound
	CodeUnavailable
)

// Error is the engine's coded error type.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Map converts repo/infra errors into coded engine errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Code: CodeNotFound, Msg: "record not found"}

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeUnavailable, Msg: "request timed out"}

	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeUnavailable, Msg: "request was canceled"}

	default:
		// fallback → bubble up error message for debugging
		return &Error{Code: CodeInternal, Msg: err.Error()}
	}
}

// InvalidArgument creates an InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return &Error{Code: CodeInvalidArgument, Msg: msg}
}

// NotFound creates a NotFound error.
func NotFound(msg string) error {
	return &Error{Code: CodeNotFound, Msg: msg}
}

// Unavailable creates an Unavailable error for backing-store failures.
func Unavailable(msg string) error {
	return &Error{Code: CodeUnavailable, Msg: msg}
}

// HTTPStatus maps an error to the HTTP status code the transport should
// respond with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsCode reports whether err is an engine error with the given code.
func IsCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
