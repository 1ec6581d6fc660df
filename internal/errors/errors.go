package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of an error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeAnalysis   ErrorType = "analysis"
	ErrorTypeConfig     ErrorType = "configuration"
)

// ErrorSeverity represents the severity of an error
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrNotFound is the sentinel for missing records. Handlers map it to 404.
var ErrNotFound = errors.New("record not found")

// AppError carries type, severity and code alongside the message
type AppError struct {
	Type      ErrorType     `json:"type"`
	Severity  ErrorSeverity `json:"severity"`
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	wrapped   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.wrapped
}

// New creates a new application error
func New(errType ErrorType, severity ErrorSeverity, code, message string) *AppError {
	return &AppError{
		Type:      errType,
		Severity:  severity,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithError wraps an existing error
func (e *AppError) WithError(err error) *AppError {
	e.wrapped = err
	return e
}

// NotFound creates a not-found error that matches ErrNotFound via errors.Is
func NotFound(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeNotFound,
		Severity:  SeverityLow,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		wrapped:   ErrNotFound,
	}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
