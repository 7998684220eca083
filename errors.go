package toolguard

import (
	"errors"
	"fmt"
)

// Sentinel errors for toolguard. Use errors.Is to check.
var (
	ErrInvalidJSON = errors.New("invalid json")
	ErrNotObject   = errors.New("payload is not a json object")
	ErrContract    = errors.New("clean result violates output contract")
)

// ClientError is caused by the caller's input (e.g. malformed JSON) and is safe to show
// to the user or the LLM. Validation problems inside a well-formed payload are never
// errors; they are Diagnostics.
// Err optionally wraps a sentinel (e.g. ErrInvalidJSON) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("Invalid JSON: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrInvalidJSON)).
func (e *ClientError) Unwrap() error { return e.Err }

// SystemError represents an internal failure (contract violation, recovered panic).
// The client should not see the underlying error message.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal error during tool call validation"
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// wrapJSONParseError returns a ClientError for JSON decode failures.
func wrapJSONParseError(err error) error {
	return &ClientError{Reason: err.Error(), Err: ErrInvalidJSON}
}

// panicError wraps a recovered panic value for SystemError.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
