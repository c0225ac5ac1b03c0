package gateway

import (
	"fmt"
	"time"

	"github.com/cassiomorais/reconciler/internal/domain/webhook"
)

// DefaultStripeHeader is the signature header Stripe sends.
const DefaultStripeHeader = "Stripe-Signature"

var stripeClasses = newClassifier(
	[]string{
		"checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"payment_intent.succeeded",
		"charge.succeeded",
	},
	[]string{
		"payment_intent.payment_failed",
		"payment_intent.canceled",
		"checkout.session.async_payment_failed",
		"charge.failed",
	},
)

// StripeEnvelope is the accepted shape of a Stripe event.
type StripeEnvelope struct {
	Type string      `json:"type" validate:"required"`
	Data *StripeData `json:"data" validate:"required"`
}

type StripeData struct {
	Object *StripeObject `json:"object" validate:"required"`
}

type StripeObject struct {
	ID             string    `json:"id" validate:"required"`
	Status         *string   `json:"status"`
	AmountReceived *float64  `json:"amount_received"`
	Metadata       *Metadata `json:"metadata"`
}

func (e *StripeEnvelope) EventType() string { return e.Type }

// StripeAdapter handles Stripe-style timestamped HMAC-SHA256 webhooks.
type StripeAdapter struct {
	header    string
	tolerance time.Duration
	now       func() time.Time
}

type StripeOption func(*StripeAdapter)

func WithStripeHeader(name string) StripeOption {
	return func(a *StripeAdapter) {
		if name != "" {
			a.header = name
		}
	}
}

func WithTolerance(d time.Duration) StripeOption {
	return func(a *StripeAdapter) {
		if d > 0 {
			a.tolerance = d
		}
	}
}

func WithClock(now func() time.Time) StripeOption {
	return func(a *StripeAdapter) { a.now = now }
}

func NewStripeAdapter(opts ...StripeOption) *StripeAdapter {
	a := &StripeAdapter{
		header:    DefaultStripeHeader,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *StripeAdapter) Name() webhook.Gateway   { return webhook.GatewayStripe }
func (a *StripeAdapter) SignatureHeader() string { return a.header }

func (a *StripeAdapter) Verify(body []byte, signature, secret string) bool {
	return verifyTimestamped(body, signature, secret, a.now(), a.tolerance)
}

func (a *StripeAdapter) ParseEnvelope(body []byte) (Envelope, error) {
	env := &StripeEnvelope{}
	if err := decodeStrict(body, env); err != nil {
		return nil, fmt.Errorf("stripe envelope: %w", err)
	}
	return env, nil
}

func (a *StripeAdapter) Normalize(env Envelope) (*webhook.PaymentEvent, error) {
	e, ok := env.(*StripeEnvelope)
	if !ok {
		return nil, fmt.Errorf("stripe: unexpected envelope %T", env)
	}
	obj := e.Data.Object

	evt := &webhook.PaymentEvent{
		Gateway:           webhook.GatewayStripe,
		Class:             stripeClasses.classify(e.Type),
		EventType:         e.Type,
		ProviderReference: obj.ID,
		RawStatus:         deref(obj.Status),
		ReceivedAt:        a.now(),
	}
	if evt.RawStatus == "" {
		evt.RawStatus = e.Type
	}
	applyAmount(evt, obj.AmountReceived)
	if err := applyMetadata(evt, obj.Metadata); err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return evt, nil
}
