package clamav

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for machine-readable error classification.
const (
	CodeUnreachable    = "unreachable_daemon"
	CodeUnknownCommand = "unknown_command"
	CodeSizeLimit      = "size_limit_exceeded"
	CodeTransport      = "transport_failure"
	CodeProtocol       = "protocol_violation"
)

// Error is the base error type for all client errors.
type Error struct {
	// Code is a machine-readable error code.
	Code string
	// Message is a human-readable error description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the human-readable error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewUnreachableError creates an error indicating the daemon could not be
// reached or did not answer.
func NewUnreachableError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeUnreachable,
		Message: msg,
		Cause:   cause,
	}
}

// NewUnknownCommandError creates an error indicating the daemon rejected a
// command as unrecognized. The command's framing bytes (the z prefix and the
// NUL or newline terminator) are stripped from the message.
func NewUnknownCommandError(command string) *Error {
	name := strings.TrimPrefix(strings.TrimRight(command, "\x00\n"), "z")
	return &Error{
		Code:    CodeUnknownCommand,
		Message: fmt.Sprintf("command %q was not recognized", name),
	}
}

// NewSizeLimitError creates an error indicating the daemon's configured
// stream size limit was exceeded.
func NewSizeLimitError(msg string) *Error {
	return &Error{
		Code:    CodeSizeLimit,
		Message: msg,
	}
}

// NewTransportError creates an error indicating a connect, read, or write
// failure on the daemon connection.
func NewTransportError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeTransport,
		Message: msg,
		Cause:   cause,
	}
}

// NewProtocolError creates an error indicating the daemon broke the expected
// exchange, such as replying before the stream was terminated.
func NewProtocolError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeProtocol,
		Message: msg,
		Cause:   cause,
	}
}

// IsUnreachableError reports whether err is or wraps an unreachable-daemon error.
func IsUnreachableError(err error) bool {
	return hasCode(err, CodeUnreachable)
}

// IsUnknownCommandError reports whether err is or wraps an unknown-command error.
func IsUnknownCommandError(err error) bool {
	return hasCode(err, CodeUnknownCommand)
}

// IsSizeLimitError reports whether err is or wraps a size-limit error.
func IsSizeLimitError(err error) bool {
	return hasCode(err, CodeSizeLimit)
}

// IsTransportError reports whether err is or wraps a transport error.
func IsTransportError(err error) bool {
	return hasCode(err, CodeTransport)
}

// IsProtocolError reports whether err is or wraps a protocol-violation error.
func IsProtocolError(err error) bool {
	return hasCode(err, CodeProtocol)
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
