package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeDecode,
				Message: "cannot decode \"0x\"",
				Err:     ErrInvalidDigits,
			},
			expected: "decode: cannot decode \"0x\": invalid digits",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "no literals",
				Err:     nil,
			},
			expected: "input: no literals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := NewDecodeError("test message", ErrInvalidDigits)

	assert.Equal(t, ErrInvalidDigits, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, ErrInvalidDigits))
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name:     "same type",
			appError: NewDecodeError("one", nil),
			target:   &AppError{Type: ErrorTypeDecode, Message: "other", Err: errors.New("x")},
			expected: true,
		},
		{
			name:     "different type",
			appError: NewDecodeError("one", nil),
			target:   &AppError{Type: ErrorTypeTrailing},
			expected: false,
		},
		{
			name:     "not an AppError",
			appError: NewInputError("one", nil),
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsDecodeError(t *testing.T) {
	wrapped := fmt.Errorf("line 3: %w", NewDecodeError("bad decimal", ErrInvalidDigits))

	assert.True(t, IsDecodeError(wrapped))
	assert.False(t, IsDecodeError(NewTrailingError("x", ErrTrailingInput)))
	assert.False(t, IsDecodeError(errors.New("plain")))
	assert.True(t, IsTrailingError(NewTrailingError("x", ErrTrailingInput)))
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "decode error",
			err:      NewDecodeError("cannot decode \"0x_1\" as a base 16 integer", ErrInvalidDigits),
			expected: "Decode error: cannot decode \"0x_1\" as a base 16 integer",
		},
		{
			name:     "trailing error",
			err:      NewTrailingError("\"d3\" after \"1.5\"", ErrTrailingInput),
			expected: "Trailing input: \"d3\" after \"1.5\"",
		},
		{
			name:     "fixture error",
			err:      NewFixtureError("group at line 4 is not closed", ErrUnbalancedGroup),
			expected: "Fixture error: group at line 4 is not closed",
		},
		{
			name:     "config error",
			err:      NewConfigError("bad key style", nil),
			expected: "Configuration error: bad key style",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide at least one literal.",
		},
		{
			name:     "standard error - unknown format",
			err:      fmt.Errorf("%w: %q", ErrUnknownFormat, "xml"),
			expected: "Error: Unknown output format. Use one of text, json, yaml or cbor.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
