package gateway

import (
	"fmt"
	"time"

	"github.com/cassiomorais/reconciler/internal/domain/webhook"
)

// DefaultPaystackHeader is the signature header Paystack sends.
const DefaultPaystackHeader = "X-Paystack-Signature"

var paystackClasses = newClassifier(
	[]string{"charge.success"},
	[]string{"charge.failed"},
)

// PaystackEnvelope is the accepted shape of a Paystack event.
type PaystackEnvelope struct {
	Event string        `json:"event" validate:"required"`
	Data  *PaystackData `json:"data" validate:"required"`
}

type PaystackData struct {
	Reference *string   `json:"reference"`
	Status    *string   `json:"status"`
	Amount    *float64  `json:"amount"`
	Metadata  *Metadata `json:"metadata"`
}

func (e *PaystackEnvelope) EventType() string { return e.Event }

// PaystackAdapter handles hex HMAC-SHA512 webhooks.
type PaystackAdapter struct {
	header string
	now    func() time.Time
}

func NewPaystackAdapter(header string) *PaystackAdapter {
	if header == "" {
		header = DefaultPaystackHeader
	}
	return &PaystackAdapter{header: header, now: time.Now}
}

func (a *PaystackAdapter) Name() webhook.Gateway   { return webhook.GatewayPaystack }
func (a *PaystackAdapter) SignatureHeader() string { return a.header }

func (a *PaystackAdapter) Verify(body []byte, signature, secret string) bool {
	return verifyHexSHA512(body, signature, secret)
}

func (a *PaystackAdapter) ParseEnvelope(body []byte) (Envelope, error) {
	env := &PaystackEnvelope{}
	if err := decodeStrict(body, env); err != nil {
		return nil, fmt.Errorf("paystack envelope: %w", err)
	}
	return env, nil
}

func (a *PaystackAdapter) Normalize(env Envelope) (*webhook.PaymentEvent, error) {
	e, ok := env.(*PaystackEnvelope)
	if !ok {
		return nil, fmt.Errorf("paystack: unexpected envelope %T", env)
	}

	evt := &webhook.PaymentEvent{
		Gateway:           webhook.GatewayPaystack,
		Class:             paystackClasses.classify(e.Event),
		EventType:         e.Event,
		ProviderReference: deref(e.Data.Reference),
		RawStatus:         deref(e.Data.Status),
		ReceivedAt:        a.now(),
	}
	applyAmount(evt, e.Data.Amount)
	if err := applyMetadata(evt, e.Data.Metadata); err != nil {
		return nil, fmt.Errorf("paystack: %w", err)
	}
	return evt, nil
}
