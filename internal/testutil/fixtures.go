package testutil

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cassiomorais/reconciler/internal/domain/booking"
	"github.com/cassiomorais/reconciler/internal/gateway"
	"github.com/google/uuid"
)

const (
	StripeSecret   = "whsec_test_secret"
	PaystackSecret = "sk_test_paystack"
)

func NewTestBooking(totalCents int64) *booking.Booking {
	customer := uuid.New()
	return &booking.Booking{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		CustomerID:    &customer,
		TotalCents:    totalCents,
		PaymentStatus: booking.PaymentStatusUnpaid,
		UpdatedAt:     time.Now(),
	}
}

// NewTestRegistry registers both gateways with the test secrets.
func NewTestRegistry() *gateway.Registry {
	return gateway.NewRegistry().
		Register(gateway.NewStripeAdapter(), StripeSecret).
		Register(gateway.NewPaystackAdapter(""), PaystackSecret)
}

// StripeEvent builds a Stripe-style event body. Nil arguments are omitted.
func StripeEvent(eventType, objectID string, amount any, metadata map[string]any) []byte {
	obj := map[string]any{"id": objectID}
	if amount != nil {
		obj["amount_received"] = amount
	}
	if metadata != nil {
		obj["metadata"] = metadata
	}
	return mustJSON(map[string]any{
		"type": eventType,
		"data": map[string]any{"object": obj},
	})
}

// PaystackEvent builds a Paystack-style event body. Nil arguments are omitted.
func PaystackEvent(event, reference string, amount any, metadata map[string]any) []byte {
	data := map[string]any{"reference": reference, "status": "success"}
	if amount != nil {
		data["amount"] = amount
	}
	if metadata != nil {
		data["metadata"] = metadata
	}
	return mustJSON(map[string]any{"event": event, "data": data})
}

// StripeHeaders signs body with the Stripe test secret at the current time.
func StripeHeaders(body []byte) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(gateway.DefaultStripeHeader, gateway.SignTimestamped(body, StripeSecret, time.Now()))
	return h
}

// PaystackHeaders signs body with the Paystack test secret.
func PaystackHeaders(body []byte) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(gateway.DefaultPaystackHeader, gateway.SignHexSHA512(body, PaystackSecret))
	return h
}

func UUIDPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
