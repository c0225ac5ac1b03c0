package gateway

import (
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
)

// Envelope is a gateway-specific payload that passed structural validation.
type Envelope interface {
	EventType() string
}

// Adapter is the per-gateway half of the webhook pipeline: it authenticates
// the raw body, decodes it into the gateway's envelope and maps that
// envelope onto the canonical event.
type Adapter interface {
	// Name returns the gateway this adapter handles.
	Name() webhook.Gateway
	// SignatureHeader is the HTTP header carrying the gateway's signature.
	SignatureHeader() string
	// Verify reports whether signature authenticates body under secret.
	// It fails closed on any parse or crypto error.
	Verify(body []byte, signature, secret string) bool
	// ParseEnvelope strictly decodes body into the gateway's envelope.
	ParseEnvelope(body []byte) (Envelope, error)
	// Normalize maps a parsed envelope onto the canonical event.
	Normalize(env Envelope) (*webhook.PaymentEvent, error)
}

// classifier maps provider event strings onto canonical classes.
type classifier map[string]webhook.EventClass

func newClassifier(success, failure []string) classifier {
	c := make(classifier, len(success)+len(failure))
	for _, s := range success {
		c[s] = webhook.ClassSuccess
	}
	for _, s := range failure {
		c[s] = webhook.ClassFailure
	}
	return c
}

func (c classifier) classify(eventType string) webhook.EventClass {
	if class, ok := c[eventType]; ok {
		return class
	}
	return webhook.ClassUnknown
}

// applyAmount sets the canonical amount from a provider minor-unit value.
// Out-of-range amounts are dropped and flagged, never rejected.
func applyAmount(evt *webhook.PaymentEvent, minor *float64) {
	if minor == nil {
		return
	}
	cents, ok := webhook.AmountFromMinorUnits(*minor)
	if !ok {
		evt.AmountOutOfRange = true
		return
	}
	evt.AmountCents = &cents
}

// applyMetadata resolves the typed references of a metadata bag. Any
// malformed reference fails the whole event.
func applyMetadata(evt *webhook.PaymentEvent, md *Metadata) error {
	if md == nil {
		return nil
	}
	bookingID, err := webhook.ParseOptionalReference("metadata.appointment_id", md.AppointmentID)
	if err != nil {
		return err
	}
	intentID, err := webhook.ParseOptionalReference("metadata.payment_intent_id", md.PaymentIntentID)
	if err != nil {
		return err
	}
	evt.BookingID = bookingID
	evt.PaymentIntentID = intentID
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
