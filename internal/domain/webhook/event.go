package webhook

import (
	"fmt"
	"math"
	"time"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/google/uuid"
)

// Gateway identifies the payment provider a notification came from.
type Gateway string

const (
	GatewayStripe   Gateway = "stripe"
	GatewayPaystack Gateway = "paystack"
)

// EventClass is the provider-independent meaning of a notification.
type EventClass string

const (
	ClassSuccess EventClass = "success"
	ClassFailure EventClass = "failure"
	ClassUnknown EventClass = "unknown"
)

// MaxAmountCents is the upper bound of a canonical amount (10,000,000.00).
const MaxAmountCents int64 = 10_000_000 * 100

// PaymentEvent is the canonical representation of one inbound notification.
// It is built per request and never persisted directly.
type PaymentEvent struct {
	Gateway           Gateway
	Class             EventClass
	EventType         string
	AmountCents       *int64
	BookingID         *uuid.UUID
	PaymentIntentID   *uuid.UUID
	ProviderReference string
	RawStatus         string

	// AmountOutOfRange is set when the provider sent an amount that could not
	// be represented and was dropped.
	AmountOutOfRange bool
	ReceivedAt       time.Time
}

// HasAmount reports whether the event carries a usable amount.
func (e *PaymentEvent) HasAmount() bool {
	return e.AmountCents != nil
}

// Amount returns the amount in cents, or zero when absent.
func (e *PaymentEvent) Amount() int64 {
	if e.AmountCents == nil {
		return 0
	}
	return *e.AmountCents
}

// AmountFromMinorUnits converts a provider minor-unit value into canonical
// cents. ok is false when the value is outside [0, MaxAmountCents].
func AmountFromMinorUnits(minor float64) (cents int64, ok bool) {
	if math.IsNaN(minor) || math.IsInf(minor, 0) {
		return 0, false
	}
	rounded := math.Round(minor)
	if rounded < 0 || rounded > float64(MaxAmountCents) {
		return 0, false
	}
	return int64(rounded), true
}

// FormatAmount renders cents as a major-unit decimal string, e.g. 5000 -> "50.00".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseReference validates an identifier taken from provider metadata.
// Only the canonical 36 character hyphenated form is accepted; uuid.Parse on
// its own also admits URN and braced variants.
func ParseReference(field, value string) (uuid.UUID, error) {
	if len(value) != 36 {
		return uuid.Nil, &domainErrors.ReferenceError{Field: field, Value: value}
	}
	id, err := uuid.Parse(value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, &domainErrors.ReferenceError{Field: field, Value: value}
	}
	return id, nil
}

// ParseOptionalReference is ParseReference for a field that may be absent.
func ParseOptionalReference(field string, value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := ParseReference(field, *value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
