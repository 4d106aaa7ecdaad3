// Package apperr defines the error taxonomy surfaced to HTTP callers.
//
// Handlers and policies return *Error values; features/errors renders them
// as a JSON envelope with the status code that matches the Kind. Anything
// that is not an *Error is treated as Internal.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind classifies an error for transport.
type Kind int

const (
	Internal Kind = iota
	NotFound
	Conflict
	Forbidden
	BadRequest
	Unauthorized
	TooManyRequests
)

// Status maps a Kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // per-field validation messages (BadRequest only)
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err, keeping it reachable through errors.Is/As.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func NotFoundf(msg string) *Error     { return New(NotFound, msg) }
func Conflictf(msg string) *Error     { return New(Conflict, msg) }
func Forbiddenf(msg string) *Error    { return New(Forbidden, msg) }
func BadRequestf(msg string) *Error   { return New(BadRequest, msg) }
func Unauthorizedf(msg string) *Error { return New(Unauthorized, msg) }

// Invalid builds a BadRequest carrying per-field messages.
func Invalid(fields map[string]string) *Error {
	return &Error{Kind: BadRequest, Message: "validation failed", Fields: fields}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// envelope is the JSON error body.
type envelope struct {
	StatusCode int               `json:"statusCode"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Write renders err as a JSON envelope. Internal errors never echo their
// underlying text.
func Write(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	status := kind.Status()
	body := envelope{StatusCode: status, Error: http.StatusText(status)}

	var e *Error
	if kind != Internal && errors.As(err, &e) {
		body.Message = e.Message
		body.Fields = e.Fields
	} else {
		body.Message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
