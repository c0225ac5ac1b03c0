package notification

import (
	"testing"

	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewPaymentReceived(t *testing.T) {
	tenant, booking := uuid.New(), uuid.New()

	n := NewPaymentReceived(tenant, booking, 10000, webhook.GatewayPaystack)

	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, tenant, n.TenantID)
	assert.Equal(t, TypePaymentReceived, n.Type)
	assert.Equal(t, "Payment received", n.Title)
	assert.Equal(t, "Payment of 100.00 received via paystack", n.Message)
	assert.Equal(t, "booking", n.EntityType)
	assert.Equal(t, booking, n.EntityID)
}

func TestNewPaymentReceived_SmallAmount(t *testing.T) {
	n := NewPaymentReceived(uuid.New(), uuid.New(), 7, webhook.GatewayStripe)
	assert.Equal(t, "Payment of 0.07 received via stripe", n.Message)
}
