// Package apperr carries the error kinds every handler maps to an HTTP
// status. Conflict is a routine outcome of the trip claim path and must
// stay distinguishable from NotFound, so drivers can silently move on to
// another trip.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Unauthenticated Kind = "unauthenticated"
	Unauthorized    Kind = "unauthorized"
	NotFound        Kind = "not_found"
	Conflict        Kind = "conflict"
	Validation      Kind = "validation"
	Internal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or Internal when err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the caller-facing message. Internal errors stay opaque.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "internal server error"
}
