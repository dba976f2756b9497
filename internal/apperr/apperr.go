// Package apperr defines the structured error type shared across the
// engine: a small closed set of Kinds, each carrying a human message
// and an optional wrapped cause, so callers can branch on category
// with errors.Is/errors.As rather than string-matching messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the engine raises.
type Kind string

const (
	// Configuration covers invalid or missing configuration values.
	Configuration Kind = "configuration"
	// Backend covers failures talking to the storage/index backend.
	Backend Kind = "backend"
	// Integrity covers data that violates an internal invariant —
	// for example a node ID referenced by a link but absent from
	// storage.
	Integrity Kind = "integrity"
	// Shape covers malformed stored data — an embedding of the wrong
	// dimension, a links blob that won't decode.
	Shape Kind = "shape"
	// Input covers invalid caller-supplied arguments.
	Input Kind = "input"
)

// Error is the engine's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, enabling
// errors.Is(err, apperr.New(apperr.Backend, "", nil)) style checks.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrap constructs an Error of the given kind from an existing error,
// returning nil if err is nil.
func Wrap(kind Kind, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(kind, message, err)
}

// Is reports whether err is an *Error of the given kind, anywhere in
// its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
