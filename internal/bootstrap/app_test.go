package bootstrap

import (
	"net/http"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/cassiomorais/reconciler/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_UsesConfiguredHeaders(t *testing.T) {
	registry := NewRegistry(config.GatewaysConfig{
		Stripe:   config.StripeConfig{Secret: "whsec", SignatureHeader: "X-Stripe-Sig", Tolerance: time.Minute},
		Paystack: config.PaystackConfig{Secret: "sk", SignatureHeader: "X-Ps-Sig"},
	})

	adapter, sig, err := registry.Detect(http.Header{"X-Ps-Sig": {"abc"}})
	require.NoError(t, err)
	assert.Equal(t, webhook.GatewayPaystack, adapter.Name())
	assert.Equal(t, "abc", sig)

	adapter, _, err = registry.Detect(http.Header{"X-Stripe-Sig": {"t=1,v1=abc"}})
	require.NoError(t, err)
	assert.Equal(t, webhook.GatewayStripe, adapter.Name())

	_, _, err = registry.Detect(http.Header{"Stripe-Signature": {"t=1,v1=abc"}})
	assert.ErrorIs(t, err, domainErrors.ErrMissingSignature)
}

func TestNewRegistry_MissingSecretStaysRegistered(t *testing.T) {
	registry := NewRegistry(config.GatewaysConfig{
		Stripe:   config.StripeConfig{SignatureHeader: "Stripe-Signature", Tolerance: time.Minute},
		Paystack: config.PaystackConfig{Secret: "sk", SignatureHeader: "X-Paystack-Signature"},
	})

	assert.Equal(t, []webhook.Gateway{webhook.GatewayStripe, webhook.GatewayPaystack}, registry.Gateways())

	_, err := registry.Secret(webhook.GatewayStripe)
	assert.ErrorIs(t, err, domainErrors.ErrMissingSecret)

	secret, err := registry.Secret(webhook.GatewayPaystack)
	require.NoError(t, err)
	assert.Equal(t, "sk", secret)
}
