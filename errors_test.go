package clamav

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  &Error{Code: CodeTransport, Message: "connection refused"},
			want: "connection refused",
		},
		{
			name: "with cause",
			err:  &Error{Code: CodeTransport, Message: "connection refused", Cause: errors.New("dial tcp")},
			want: "connection refused: dial tcp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{Code: CodeTransport, Message: "read failed", Cause: cause}
	assert.ErrorIs(t, err, cause)

	bare := &Error{Code: CodeTransport, Message: "read failed"}
	assert.Nil(t, bare.Unwrap())
}

func TestErrorAs(t *testing.T) {
	err := NewTransportError("connection refused", nil)
	wrapped := fmt.Errorf("scan failed: %w", err)

	var target *Error
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, CodeTransport, target.Code)
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		code string
	}{
		{"unreachable", NewUnreachableError("daemon gone", cause), CodeUnreachable},
		{"unknown command", NewUnknownCommandError("zBOGUS\x00"), CodeUnknownCommand},
		{"size limit", NewSizeLimitError("limit exceeded"), CodeSizeLimit},
		{"transport", NewTransportError("write failed", cause), CodeTransport},
		{"protocol", NewProtocolError("early reply", nil), CodeProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestUnknownCommandErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"nul-terminated", "zWRONGCMD\x00", `command "WRONGCMD" was not recognized`},
		{"newline-terminated", "WRONGCMD\n", `command "WRONGCMD" was not recognized`},
		{"bare", "WRONGCMD", `command "WRONGCMD" was not recognized`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnknownCommandError(tt.command)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestErrorKindHelpers(t *testing.T) {
	transport := NewTransportError("write failed", nil)

	assert.True(t, IsTransportError(transport))
	assert.True(t, IsTransportError(fmt.Errorf("wrapped: %w", transport)))
	assert.False(t, IsTransportError(NewProtocolError("early reply", nil)))
	assert.False(t, IsTransportError(errors.New("random error")))

	assert.True(t, IsUnreachableError(NewUnreachableError("gone", nil)))
	assert.True(t, IsUnknownCommandError(NewUnknownCommandError("zBOGUS\x00")))
	assert.True(t, IsSizeLimitError(NewSizeLimitError("limit")))
	assert.True(t, IsProtocolError(NewProtocolError("early reply", nil)))

	assert.False(t, IsSizeLimitError(transport))
	assert.False(t, IsUnknownCommandError(nil))
}
