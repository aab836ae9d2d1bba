// Package diag provides the internal (non-Scheme-visible) error type used
// for plumbing failures this runtime core treats as fatal: allocator
// corruption, a broken dynamic-wind tree, anything that indicates a bug
// in the implementation rather than a condition the running program can
// meaningfully handle via guard/raise. These never cross into
// Scheme-visible condition values.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error wraps an underlying cause with a stack trace captured at the
// point of failure, via pkg/errors, so a fatal abort can print where in
// the Go implementation the corruption was detected.
type Error struct {
	cause error
}

// Wrap annotates err with a captured stack trace and a one-line
// description of what was being done when it occurred.
func Wrap(err error, what string) *Error {
	return &Error{cause: errors.Wrap(err, what)}
}

// New constructs a fresh Error with a captured stack trace.
func New(format string, args ...any) *Error {
	return &Error{cause: errors.New(fmt.Sprintf(format, args...))}
}

func (e *Error) Error() string { return e.cause.Error() }

func (e *Error) Unwrap() error { return e.cause }

// StackTrace returns the frames captured when e was created, formatted
// one per line, for inclusion in a fatal-abort diagnostic.
func (e *Error) StackTrace() string {
	return fmt.Sprintf("%+v", e.cause)
}
