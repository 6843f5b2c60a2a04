package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidSchema, "test"),
			code:     ErrCodeInvalidSchema,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidSchema, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped matching code",
			err:      Wrap(ErrCodeDriverNotFound, errors.New("cause"), "test"),
			code:     ErrCodeDriverNotFound,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "x")); got != ErrCodeTimeout {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeTimeout)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidSchema, "member has no type")
	if got := UserMessage(err); got != "member has no type" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestProtocolError(t *testing.T) {
	err := &ProtocolError{Name: "Error", Message: "page closed"}
	if err.Error() != "Error: page closed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Code() != ErrCodeProtocol {
		t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeProtocol)
	}

	closed := &ProtocolError{Name: "TargetClosedError", Message: "target closed"}
	if closed.Code() != ErrCodeTargetClosed {
		t.Errorf("Code() = %v, want %v", closed.Code(), ErrCodeTargetClosed)
	}

	anon := &ProtocolError{Message: "boom"}
	if anon.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", anon.Error(), "boom")
	}
}
