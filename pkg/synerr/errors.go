// Package synerr defines the error taxonomy shared across the generation
// pipeline. Every component that can fail classifies its failure into one
// of these kinds so retry loops and the Orchestrator can branch on
// errors.As instead of matching strings.
package synerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error taxonomy.
type Kind string

const (
	InvalidRequest       Kind = "InvalidRequest"
	LimitExceeded        Kind = "LimitExceeded"
	SchemaNotFound       Kind = "SchemaNotFound"
	BackendRateLimit     Kind = "BackendRateLimit"
	BackendTimeout       Kind = "BackendTimeout"
	BackendAuth          Kind = "BackendAuth"
	BackendOther         Kind = "BackendOther"
	ParseFailure         Kind = "ParseFailure"
	RetrievalEmpty       Kind = "RetrievalEmpty"
	RetrievalUnavailable Kind = "RetrievalUnavailable"
	Internal             Kind = "Internal"

	// AlreadyExists and InvalidSchema are Schema Registry specific kinds
	// (spec.md 4.1); they are not part of the RPC-facing taxonomy in 7 but
	// share the same carrier type.
	AlreadyExists Kind = "AlreadyExists"
	InvalidSchema Kind = "InvalidSchema"
)

var retryableKinds = map[Kind]bool{
	BackendRateLimit: true,
	BackendTimeout:   true,
}

// Error is the taxonomy carrier. Retryable is set at construction time from
// Kind but can be overridden explicitly (some Other errors are retryable in
// edge cases, most aren't).
type Error struct {
	Kind      Kind
	Message   string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind; it is retryable exactly when the
// kind is in retryableKinds.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Retryable: retryableKinds[kind]}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap carries an underlying error under a taxonomy kind.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err, Retryable: retryableKinds[kind]}
}

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, defaulting to Internal when err does not
// carry a synerr.Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return Internal
}

// Retryable reports whether err should be retried by a backend call loop.
func Retryable(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}
