package webhook

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventType is the type published for every reconciled notification.
const AuditEventType = "payment.reconciled"

// AuditRecord summarises what reconciliation did with one event. It is
// published to the event sink for downstream consumers and the audit trail.
type AuditRecord struct {
	ID                uuid.UUID         `json:"id"`
	Type              string            `json:"type"`
	Gateway           Gateway           `json:"gateway"`
	Class             EventClass        `json:"class"`
	EventType         string            `json:"event_type"`
	ProviderReference string            `json:"provider_reference"`
	BookingID         *uuid.UUID        `json:"booking_id,omitempty"`
	PaymentIntentID   *uuid.UUID        `json:"payment_intent_id,omitempty"`
	Amount            string            `json:"amount,omitempty"`
	Steps             map[string]string `json:"steps"`
	OccurredAt        time.Time         `json:"occurred_at"`
}

// NewAuditRecord builds the audit record for evt with the per-step outcomes.
func NewAuditRecord(evt *PaymentEvent, steps map[string]string) *AuditRecord {
	rec := &AuditRecord{
		ID:                uuid.New(),
		Type:              AuditEventType,
		Gateway:           evt.Gateway,
		Class:             evt.Class,
		EventType:         evt.EventType,
		ProviderReference: evt.ProviderReference,
		BookingID:         evt.BookingID,
		PaymentIntentID:   evt.PaymentIntentID,
		Steps:             steps,
		OccurredAt:        time.Now().UTC(),
	}
	if evt.HasAmount() {
		rec.Amount = FormatAmount(evt.Amount())
	}
	return rec
}
