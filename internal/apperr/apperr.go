// Package apperr defines the closed set of failure kinds the API reports.
// Every error that reaches the HTTP layer is one of these kinds; the single
// fiber error handler maps a kind to exactly one status code and wire shape.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindInternal
)

// HTTPStatus maps a kind to its response status. The switch is exhaustive;
// unknown kinds fall back to 500 rather than leaking a zero status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// FieldError is one violated rule on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a ValidationFailed error carrying every violated field.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Wrap classifies an unexpected failure as internal while keeping the cause
// reachable through errors.Is/As.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: err}
}

func Wrapf(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), cause: err}
}

// IsKind reports whether err is an *Error of the given kind anywhere in its
// chain.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
