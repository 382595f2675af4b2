package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of a failure surfaced to callers
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvariantViolation Kind = "invariant_violation"
	KindPersistenceFailure Kind = "persistence_failure"
	KindValidation         Kind = "validation"
	KindForbidden          Kind = "forbidden"
	KindConflict           Kind = "conflict"
)

// Error is the structured failure returned by every core operation
type Error struct {
	Kind    Kind
	Message string
	Err     error // Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind, so the
// exported sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "user not authenticated"}
	ErrInvariantViolation = &Error{Kind: KindInvariantViolation, Message: "invariant violation"}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure, Message: "persistence failure"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "conflict"}
)

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message, nil)
}

func InvariantViolation(format string, args ...interface{}) *Error {
	return New(KindInvariantViolation, fmt.Sprintf(format, args...), nil)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, fmt.Sprintf(format, args...), nil)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...), nil)
}

// Persistence wraps a store failure. Errors that already carry a kind pass
// through untouched so a NotFound raised deep in a transaction keeps its kind.
func Persistence(message string, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return New(KindPersistenceFailure, message, err)
}

// KindOf returns the kind of err, treating unknown errors as persistence failures
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistenceFailure
}

// MessageOf returns the human readable cause without the wrapped driver detail
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvariantViolation, KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
