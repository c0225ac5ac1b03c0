package errors

import (
	"errors"
	"fmt"
)

var (
	// Request errors, raised before any store is touched
	ErrMalformedBody      = errors.New("malformed request body")
	ErrMissingSignature   = errors.New("missing webhook signature")
	ErrAmbiguousSignature = errors.New("ambiguous webhook signature")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrMissingSecret      = errors.New("webhook secret not configured")
	ErrSchemaViolation    = errors.New("schema violation")
	ErrInvalidReference   = errors.New("invalid reference format")

	// Store errors
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentIntentNotFound = errors.New("payment intent not found")

	// Event sink errors
	ErrSinkUnavailable = errors.New("event sink unavailable")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError describes a single structural problem in an inbound payload.
// It unwraps to ErrSchemaViolation so callers only need errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrSchemaViolation
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ReferenceError reports a metadata reference that is not a valid identifier.
type ReferenceError struct {
	Field string
	Value string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("invalid reference in %s: %q", e.Field, e.Value)
}

func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}
