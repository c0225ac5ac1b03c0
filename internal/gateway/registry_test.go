package gateway

import (
	"net/http"
	"testing"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry().
		Register(NewStripeAdapter(), "whsec").
		Register(NewPaystackAdapter(""), "")
}

func TestRegistry_Detect(t *testing.T) {
	r := newTestRegistry()

	h := http.Header{}
	h.Set(DefaultStripeHeader, "t=1,v1=aa")
	a, sig, err := r.Detect(h)
	require.NoError(t, err)
	assert.Equal(t, webhook.GatewayStripe, a.Name())
	assert.Equal(t, "t=1,v1=aa", sig)

	h = http.Header{}
	h.Set(DefaultPaystackHeader, "abc")
	a, sig, err = r.Detect(h)
	require.NoError(t, err)
	assert.Equal(t, webhook.GatewayPaystack, a.Name())
	assert.Equal(t, "abc", sig)
}

func TestRegistry_Detect_NoHeader(t *testing.T) {
	_, _, err := newTestRegistry().Detect(http.Header{})
	assert.ErrorIs(t, err, domainErrors.ErrMissingSignature)
}

func TestRegistry_Detect_EmptyHeaderIsMissing(t *testing.T) {
	h := http.Header{}
	h.Set(DefaultStripeHeader, "")
	_, _, err := newTestRegistry().Detect(h)
	assert.ErrorIs(t, err, domainErrors.ErrMissingSignature)
}

func TestRegistry_Detect_BothHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(DefaultStripeHeader, "t=1,v1=aa")
	h.Set(DefaultPaystackHeader, "abc")
	_, _, err := newTestRegistry().Detect(h)
	assert.ErrorIs(t, err, domainErrors.ErrAmbiguousSignature)
}

func TestRegistry_Secret(t *testing.T) {
	r := newTestRegistry()

	secret, err := r.Secret(webhook.GatewayStripe)
	require.NoError(t, err)
	assert.Equal(t, "whsec", secret)

	_, err = r.Secret(webhook.GatewayPaystack)
	assert.ErrorIs(t, err, domainErrors.ErrMissingSecret)

	assert.Equal(t, []webhook.Gateway{webhook.GatewayStripe, webhook.GatewayPaystack}, r.Gateways())
}
