package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInput            = "INPUT_ERROR"
	ErrCodeEvaluation       = "EVALUATION_ERROR"
	ErrCodeUnsupportedType  = "UNSUPPORTED_TYPE"
	ErrCodeNoMatchingResult = "NO_MATCHING_RESULT"
)

// ElementError is the structured error type for all engine operations.
type ElementError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Field   string         `json:"field,omitempty"`
	Cause   error          `json:"-"`
}

func (e *ElementError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ElementError) Unwrap() error {
	return e.Cause
}

// NewError creates a new ElementError.
func NewError(code, message string) *ElementError {
	return &ElementError{Code: code, Message: message}
}

// NewErrorf creates a new ElementError with a formatted message.
func NewErrorf(code, format string, args ...any) *ElementError {
	return &ElementError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithField attaches a config/response field path to the error.
func (e *ElementError) WithField(field string) *ElementError {
	e.Field = field
	return e
}

// WithCause attaches an underlying cause.
func (e *ElementError) WithCause(err error) *ElementError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *ElementError) WithDetails(details map[string]any) *ElementError {
	e.Details = details
	return e
}
