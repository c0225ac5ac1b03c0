package notification

import (
	"fmt"
	"time"

	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/google/uuid"
)

// Type classifies an operator notification.
type Type string

const (
	TypePaymentReceived Type = "payment_received"
)

// Notification is an operator-facing message linked to a domain entity.
type Notification struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Type       Type
	Title      string
	Message    string
	EntityType string
	EntityID   uuid.UUID
	CreatedAt  time.Time
}

// NewPaymentReceived builds the notification raised when a booking is paid.
func NewPaymentReceived(tenantID, bookingID uuid.UUID, amountCents int64, gateway webhook.Gateway) *Notification {
	return &Notification{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Type:       TypePaymentReceived,
		Title:      "Payment received",
		Message:    fmt.Sprintf("Payment of %s received via %s", webhook.FormatAmount(amountCents), gateway),
		EntityType: "booking",
		EntityID:   bookingID,
		CreatedAt:  time.Now(),
	}
}
