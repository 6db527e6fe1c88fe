package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrNoInput          = errors.New("no input provided: pass literals as arguments, a file with -i, or pipe them to stdin")
	ErrFileNotFound     = errors.New("file not found")
	ErrNoMatch          = errors.New("no grammar rule matches the input")
	ErrTrailingInput    = errors.New("unconsumed input after literal")
	ErrInvalidDigits    = errors.New("invalid digits")
	ErrInvalidCodePoint = errors.New("invalid unicode code point")
	ErrInvalidEscape    = errors.New("invalid escape sequence")
	ErrUnbalancedGroup  = errors.New("unbalanced equivalence group")
	ErrEquivMismatch    = errors.New("values in equivalence group differ")
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrUnknownKind      = errors.New("unknown value kind")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeDecode   ErrorType = "decode"
	ErrorTypeTrailing ErrorType = "trailing"
	ErrorTypeFixture  ErrorType = "fixture"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading literals
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewDecodeError creates an error for a lexeme that matched the grammar
// but could not be converted to its payload type.
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: message,
		Err:     err,
	}
}

// NewTrailingError creates an error for strict callers when a literal
// matched but input remains after it.
func NewTrailingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTrailing,
		Message: message,
		Err:     err,
	}
}

// NewFixtureError creates a new error related to equivalence fixtures
func NewFixtureError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFixture,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// IsDecodeError reports whether err, or anything it wraps, is a decode error.
func IsDecodeError(err error) bool {
	return errors.Is(err, &AppError{Type: ErrorTypeDecode})
}

// IsTrailingError reports whether err is a strict-mode trailing input error.
func IsTrailingError(err error) bool {
	return errors.Is(err, &AppError{Type: ErrorTypeTrailing})
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeDecode:
			return fmt.Sprintf("Decode error: %s", appErr.Message)
		case ErrorTypeTrailing:
			return fmt.Sprintf("Trailing input: %s", appErr.Message)
		case ErrorTypeFixture:
			return fmt.Sprintf("Fixture error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide at least one literal."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Pass literals as arguments, a file with -i, or pipe them to stdin."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrUnknownFormat) {
		return "Error: Unknown output format. Use one of text, json, yaml or cbor."
	}
	if errors.Is(err, ErrUnknownKind) {
		return "Error: Unknown kind. Use one of auto, int, float, decimal, bool or string."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
