// Package domain defines the core domain models for VoltKV.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds as they appear on the wire, before the first space of a
// RESP error reply.
const (
	KindErr       = "ERR"
	KindWrongType = "WRONGTYPE"
)

// ReplyError is a command-level error that is reported to the issuing
// client as a RESP error reply. The connection stays open and the store
// is left unmodified by the failing command.
type ReplyError struct {
	Kind    string // Error kind (e.g., "ERR", "WRONGTYPE")
	Message string // Human-readable message
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *ReplyError) Error() string {
	return e.Kind + " " + e.Message
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *ReplyError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support. Two ReplyErrors compare equal when
// their kind and message match.
func (e *ReplyError) Is(target error) bool {
	t, ok := target.(*ReplyError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// NewReplyError creates a new ReplyError with the given kind and message.
func NewReplyError(kind, message string) *ReplyError {
	return &ReplyError{
		Kind:    kind,
		Message: message,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *ReplyError) WithCause(cause error) *ReplyError {
	return &ReplyError{
		Kind:    e.Kind,
		Message: e.Message,
		Cause:   cause,
	}
}

// IsReplyError reports whether err is (or wraps) a ReplyError.
func IsReplyError(err error) bool {
	var re *ReplyError
	return errors.As(err, &re)
}

// Errf creates a ReplyError of kind ERR with a formatted message.
func Errf(format string, args ...any) *ReplyError {
	return NewReplyError(KindErr, fmt.Sprintf(format, args...))
}

// WrongArity creates the canonical wrong-number-of-arguments error for
// the given command name (lowercased by the caller, matching Redis).
func WrongArity(cmd string) *ReplyError {
	return Errf("wrong number of arguments for '%s' command", cmd)
}

// Canonical command errors.
var (
	// ErrWrongType indicates a command addressed a key whose stored type
	// does not match the command's required type.
	ErrWrongType = NewReplyError(KindWrongType, "Operation against a key holding the wrong kind of value")

	// ErrNotInteger indicates a numeric argument or stored value could
	// not be parsed as a 64-bit integer.
	ErrNotInteger = NewReplyError(KindErr, "value is not an integer or out of range")

	// ErrOverflow indicates an increment would leave the 64-bit
	// integer range.
	ErrOverflow = NewReplyError(KindErr, "increment or decrement would overflow")

	// ErrSyntax indicates a malformed option list.
	ErrSyntax = NewReplyError(KindErr, "syntax error")

	// ErrStreamIDInvalid indicates an entry ID that does not parse as
	// <ms>-<seq>.
	ErrStreamIDInvalid = NewReplyError(KindErr, "Invalid stream ID specified as stream command argument")

	// ErrStreamIDTooSmall indicates an explicit entry ID that is not
	// strictly greater than the stream's last ID.
	ErrStreamIDTooSmall = NewReplyError(KindErr, "The ID specified in XADD is equal or smaller than the target stream top item")

	// ErrStreamIDZero indicates the reserved minimum ID 0-0.
	ErrStreamIDZero = NewReplyError(KindErr, "The ID specified in XADD must be greater than 0-0")
)
