// Package domain defines the core domain models for respkv.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// KVError is a command-level error reported back to the client.
//
// Code is the RESP error prefix (e.g. "ERR") and Message the human text,
// so Error() is exactly the payload of the "-<text>\r\n" reply.
// A KVError never terminates the connection.
type KVError struct {
	Code    string // Error prefix (e.g., "ERR")
	Message string // Human-readable message
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *KVError) Error() string {
	return e.Code + " " + e.Message
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *KVError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support. Two KVErrors match when both
// prefix and message are equal.
func (e *KVError) Is(target error) bool {
	t, ok := target.(*KVError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewKVError creates a new KVError with the given prefix and message.
func NewKVError(code, message string) *KVError {
	return &KVError{
		Code:    code,
		Message: message,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *KVError) WithCause(cause error) *KVError {
	return &KVError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
	}
}

// IsKVError checks if an error is a KVError with the given prefix.
// If code is empty, it only checks if the error is a KVError.
func IsKVError(err error, code string) bool {
	var ke *KVError
	if errors.As(err, &ke) {
		if code == "" {
			return true
		}
		return ke.Code == code
	}
	return false
}

// ErrPrefix is the generic error prefix used by every respkv reply.
const ErrPrefix = "ERR"

var (
	// ErrSyntax indicates an option or argument shape the command does not accept.
	ErrSyntax = NewKVError(ErrPrefix, "syntax error")

	// ErrNotInteger indicates an argument that must be a decimal integer is not.
	ErrNotInteger = NewKVError(ErrPrefix, "value is not an integer or out of range")

	// ErrNoCommand indicates an empty command array.
	ErrNoCommand = NewKVError(ErrPrefix, "no command")

	// ErrNotCommandArray indicates a frame that is not an array of bulk strings.
	ErrNotCommandArray = NewKVError(ErrPrefix, "Protocol error: expected array of bulk strings")
)

// WrongArity returns the error for a command called with the wrong
// number of arguments.
func WrongArity(cmd string) *KVError {
	return NewKVError(ErrPrefix, fmt.Sprintf("wrong number of arguments for '%s' command", cmd))
}

// InvalidExpire returns the error for a non-positive expire time.
func InvalidExpire(cmd string) *KVError {
	return NewKVError(ErrPrefix, fmt.Sprintf("invalid expire time in '%s' command", cmd))
}

// UnknownCommand returns the error for an unrecognized command name.
// The name comes from the client; CR and LF become spaces so the reply
// stays a single line.
func UnknownCommand(name string) *KVError {
	return NewKVError(ErrPrefix, fmt.Sprintf("unknown command '%s'", lineSafe.Replace(name)))
}

var lineSafe = strings.NewReplacer("\r", " ", "\n", " ")
