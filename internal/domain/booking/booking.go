package booking

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the payment state of a booking as shown to operators.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Booking is the reservation a payment is applied against. Bookings are
// owned by the scheduling side of the platform; reconciliation only updates
// the payment columns and reads the tenant, customer and total.
type Booking struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	CustomerID    *uuid.UUID
	TotalCents    int64
	AmountPaid    int64
	PaymentStatus PaymentStatus
	UpdatedAt     time.Time
}
