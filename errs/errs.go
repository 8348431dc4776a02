// Package errs provides error classification for hive operations.
// The category decides whether a failure is reported to the invoking user,
// retried at the storage layer, or only logged.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the business-level failure modes. These never carry
// retry semantics: a failed authorization or validation is reported, not
// retried.
var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrNotFound      = errors.New("record not found")
)

// ValidationError marks malformed user input: bad command arguments,
// out-of-range durations, malformed storage requests. Reported directly to
// the invoking user and never logged as a fault.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a user-input problem.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ContentionError wraps a transient store-busy condition. The persistence
// layer retries these a bounded number of times before surfacing them.
type ContentionError struct {
	Underlying error
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("store contention: %v", e.Underlying)
}

func (e *ContentionError) Unwrap() error { return e.Underlying }

// IsContention reports whether err is a retryable store-busy condition.
func IsContention(err error) bool {
	var ce *ContentionError
	return errors.As(err, &ce)
}

// PlatformError wraps a failed chat-platform call (permissions, rate limit,
// deleted target). Logged, generally not retried; already-committed
// persistence changes are not rolled back.
type PlatformError struct {
	Op         string
	Underlying error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Op, e.Underlying)
}

func (e *PlatformError) Unwrap() error { return e.Underlying }

// Platform wraps err as a PlatformError for the named operation. Returns nil
// when err is nil.
func Platform(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PlatformError{Op: op, Underlying: err}
}

// UserMessage returns the reply shown to the invoking user, or "" when the
// failure should stay silent (platform and internal faults).
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return err.Error()
	case errors.Is(err, ErrNotAuthorized):
		return "You are not authorized to do that."
	case errors.Is(err, ErrNotFound):
		return "No matching drone record was found."
	case IsContention(err):
		return "The hive storage is busy. Try again in a moment."
	}
	return ""
}
