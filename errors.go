package tband

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a structured tband error, adapted from the teacher's
// (Op, DevID, Queue, Code, Errno) shape: tband has no device/queue/errno
// axis, only an operation name, an optional core id, and an error code.
type Error struct {
	Op     string    // operation that failed (e.g. "StartStreaming", "Submit")
	CoreID int       // core id (-1 if not applicable)
	Code   ErrorCode // high-level error category
	Inner  error     // wrapped error, if any
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.CoreID >= 0 {
		parts = append(parts, fmt.Sprintf("core=%d", e.CoreID))
	}
	if len(parts) > 0 {
		return fmt.Sprintf("tband: %s (%s)", e.Code, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("tband: %s", e.Code)
}

// Unwrap returns the wrapped error for errors.Is/errors.As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is lets errors.Is match on error code alone, ignoring Op/CoreID/Inner.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// ErrorCode enumerates tband's high-level error categories.
type ErrorCode string

const (
	// ErrCodeNotQuiescent: an operation that requires the dispatcher to be
	// quiescent (starting or resetting a backend) was attempted while
	// tracing was still enabled or a core could still be mid-dispatch.
	ErrCodeNotQuiescent ErrorCode = "not quiescent"
	// ErrCodeAlreadyStopped: a stop operation was attempted on a backend
	// that was already stopped.
	ErrCodeAlreadyStopped ErrorCode = "already stopped"
	// ErrCodeMetadataDropOnStart: starting to stream found the metadata
	// replay buffer had already overflowed at least once.
	ErrCodeMetadataDropOnStart ErrorCode = "metadata dropped before start"
	// ErrCodeNotImplemented: a backend kind with no concrete
	// implementation (post-mortem, external) was invoked.
	ErrCodeNotImplemented ErrorCode = "not implemented"
	// ErrCodeInvalidParameters: a caller-supplied argument (core id,
	// buffer) was out of range or malformed.
	ErrCodeInvalidParameters ErrorCode = "invalid parameters"
)

// ErrBackendNotImplemented is returned by every operation of the
// post-mortem/external backend stand-in (spec §9 Open Question: left
// undefined rather than guessed).
var ErrBackendNotImplemented = &Error{Op: "Backend", CoreID: -1, Code: ErrCodeNotImplemented}

// NewError creates a structured error with no core-id context.
func NewError(op string, code ErrorCode, inner error) *Error {
	return &Error{Op: op, CoreID: -1, Code: code, Inner: inner}
}

// NewCoreError creates a structured error scoped to a specific core.
func NewCoreError(op string, coreID int, code ErrorCode, inner error) *Error {
	return &Error{Op: op, CoreID: coreID, Code: code, Inner: inner}
}

// WrapError re-tags an existing error with a new operation name, preserving
// its code and core id if it is already a *Error.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	var te *Error
	if errors.As(inner, &te) {
		return &Error{Op: op, CoreID: te.CoreID, Code: te.Code, Inner: te.Inner}
	}
	return &Error{Op: op, CoreID: -1, Code: ErrCodeInvalidParameters, Inner: inner}
}

// IsCode reports whether err is (or wraps) a *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}
