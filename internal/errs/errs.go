// Package errs defines the error kinds reported by vncpasswd.
//
// Every failure is terminal: the command prints the message and exits 1.
// The kind is still carried on the error so tests and callers can tell a
// usage mistake from an unreachable display.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage indicates malformed flags, missing arguments or an
	// incompatible combination of modes.
	ErrUsage = errors.New("usage error")

	// ErrEnvironment indicates a required environment variable is unset or
	// longer than the accepted bound.
	ErrEnvironment = errors.New("environment error")

	// ErrValidation indicates input was rejected: a password that is too
	// short, a missing password, or a missing or oversized username.
	ErrValidation = errors.New("validation error")

	// ErrIO indicates a filesystem or stream failure, including an unsafe
	// password directory.
	ErrIO = errors.New("i/o error")

	// ErrProtocol indicates the display could not be reached or does not
	// expose the expected property.
	ErrProtocol = errors.New("protocol error")
)

// Error is a classified error. errors.Is matches both its Kind and its
// underlying cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newf(kind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func Usagef(format string, args ...any) error {
	return newf(ErrUsage, nil, format, args...)
}

func Environmentf(format string, args ...any) error {
	return newf(ErrEnvironment, nil, format, args...)
}

func Validationf(format string, args ...any) error {
	return newf(ErrValidation, nil, format, args...)
}

// IO wraps cause as an ErrIO. cause may be nil for checks that fail
// without an underlying system error.
func IO(cause error, format string, args ...any) error {
	return newf(ErrIO, cause, format, args...)
}

// Protocol wraps cause as an ErrProtocol.
func Protocol(cause error, format string, args ...any) error {
	return newf(ErrProtocol, cause, format, args...)
}

// KindOf returns the kind of err, or nil if err is unclassified.
func KindOf(err error) error {
	for _, kind := range []error{ErrUsage, ErrEnvironment, ErrValidation, ErrIO, ErrProtocol} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
