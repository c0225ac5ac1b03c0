package ledger

import (
	"time"

	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/google/uuid"
)

// EntryType classifies a ledger row.
type EntryType string

const (
	EntryTypePayment EntryType = "payment"
)

// EntryStatus is the settlement state of a ledger row.
type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "completed"
)

// Entry is an append-only record of a completed financial transaction.
type Entry struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	BookingID   uuid.UUID
	CustomerID  *uuid.UUID
	Type        EntryType
	AmountCents int64
	Gateway     webhook.Gateway
	Reference   string
	Status      EntryStatus
	CreatedAt   time.Time
}

// NewPaymentEntry builds the completed payment entry for a booking.
func NewPaymentEntry(tenantID, bookingID uuid.UUID, customerID *uuid.UUID, amountCents int64, gateway webhook.Gateway, reference string) *Entry {
	return &Entry{
		ID:          uuid.New(),
		TenantID:    tenantID,
		BookingID:   bookingID,
		CustomerID:  customerID,
		Type:        EntryTypePayment,
		AmountCents: amountCents,
		Gateway:     gateway,
		Reference:   reference,
		Status:      EntryStatusCompleted,
		CreatedAt:   time.Now(),
	}
}
