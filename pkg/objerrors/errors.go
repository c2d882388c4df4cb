// Package objerrors provides the structured error taxonomy surfaced by the
// store adapters and the fetch pipeline: a small set of error Kinds, each
// wrapping the underlying transport error for context.
package objerrors

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the taxonomy buckets the pipeline and
// its consumers reason about. It deliberately does not distinguish
// transport-specific failure modes beyond what spec callers need to branch
// on; anything else collapses into TransportFailure.
type Kind string

const (
	// UnsupportedScheme: the URI scheme is not one of the known adapters.
	// Raised synchronously at dispatch, before any network I/O.
	UnsupportedScheme Kind = "unsupported_scheme"

	// NotFoundPrefix: listing ran to completion but returned no entries at
	// all for the given prefix.
	NotFoundPrefix Kind = "not_found_prefix"

	// NotFoundObject: a specific read discovered the object had been
	// deleted between listing and reading.
	NotFoundObject Kind = "not_found_object"

	// AuthMissing: no credentials could be discovered for the store.
	AuthMissing Kind = "auth_missing"

	// AuthRejected: credentials were discovered but the store rejected them.
	AuthRejected Kind = "auth_rejected"

	// TransportFailure: any other I/O, timeout, or remote-side error.
	TransportFailure Kind = "transport_failure"
)

// Error is the concrete error type returned by adapters and the pipeline.
// Cancellation is represented by context.Canceled directly, never by an
// Error value; there is no Kind for it.
type Error struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "list_pages", "read"
	Path    string // object key or prefix involved, if any
	Cause   error
	message string
}

func (e *Error) Error() string {
	msg := e.message
	if msg == "" {
		msg = string(e.Kind)
	}
	switch {
	case e.Op != "" && e.Path != "":
		if e.Cause != nil {
			return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, msg, e.Cause)
		}
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, msg)
	case e.Op != "":
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Op, msg)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", msg, e.Cause)
		}
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, &Error{Kind: X}) to match by Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error of the given kind with a human-readable message.
func New(kind Kind, op, path, message string) *Error {
	return &Error{Kind: kind, Op: op, Path: path, message: message}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Cause: cause}
}

// Is reports whether err is an *Error of the given kind, unwrapping as
// errors.As would.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf extracts the Kind of err, if it (or something it wraps) is an
// *Error. Used by callers, such as the metrics collector, that report on an
// error's classification without caring about its message or cause.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}
