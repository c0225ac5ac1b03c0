package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the booking operations reconciliation depends on.
type Repository interface {
	// UpdatePaymentStatus overwrites the payment status and the amount paid.
	// The amount is not added to a previous value.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus, amountPaidCents int64) error

	// GetByID returns the booking or ErrBookingNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
}
