package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &DomainError{
				Code:    "ledger_write_failed",
				Message: "ledger insert failed",
				Err:     errors.New("connection reset"),
			},
			expected: "ledger insert failed: connection reset",
		},
		{
			name: "without wrapped error",
			err: &DomainError{
				Code:    "unsupported_gateway",
				Message: "gateway is not registered",
			},
			expected: "gateway is not registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	err := NewDomainError("sink", "publish failed", ErrSinkUnavailable)

	assert.Equal(t, ErrSinkUnavailable, err.Unwrap())
	assert.ErrorIs(t, err, ErrSinkUnavailable)
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("data.object.id", "required")

	assert.Equal(t, "validation failed for field data.object.id: required", err.Error())
	assert.Equal(t, "data.object.id", err.Field)
}

func TestValidationError_IsSchemaViolation(t *testing.T) {
	err := fmt.Errorf("decode envelope: %w", NewValidationError("type", "required"))

	assert.ErrorIs(t, err, ErrSchemaViolation)
	assert.NotErrorIs(t, err, ErrInvalidReference)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "type", ve.Field)
}

func TestReferenceError(t *testing.T) {
	err := fmt.Errorf("normalize: %w", &ReferenceError{Field: "metadata.appointment_id", Value: "not-an-id"})

	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.NotErrorIs(t, err, ErrSchemaViolation)
	assert.Contains(t, err.Error(), `"not-an-id"`)
}

func TestErrorConstants(t *testing.T) {
	for _, err := range []error{
		ErrMalformedBody,
		ErrMissingSignature,
		ErrAmbiguousSignature,
		ErrInvalidSignature,
		ErrMissingSecret,
		ErrSchemaViolation,
		ErrInvalidReference,
		ErrBookingNotFound,
		ErrPaymentIntentNotFound,
		ErrSinkUnavailable,
	} {
		assert.NotNil(t, err)
		assert.NotEmpty(t, err.Error())
	}
}
