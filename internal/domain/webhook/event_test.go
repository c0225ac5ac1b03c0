package webhook

import (
	"math"
	"testing"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountFromMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int64
		ok       bool
	}{
		{"typical", 5000, 5000, true},
		{"zero", 0, 0, true},
		{"upper bound", 1_000_000_000, 1_000_000_000, true},
		{"above upper bound", 1_000_000_001, 0, false},
		{"negative", -1, 0, false},
		{"fractional rounds", 1234.6, 1235, true},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cents, ok := AmountFromMinorUnits(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, cents)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50.00", FormatAmount(5000))
	assert.Equal(t, "100.00", FormatAmount(10000))
	assert.Equal(t, "0.07", FormatAmount(7))
	assert.Equal(t, "10000000.00", FormatAmount(MaxAmountCents))
	assert.Equal(t, "-1.50", FormatAmount(-150))
}

func TestParseReference(t *testing.T) {
	valid := uuid.New()

	id, err := ParseReference("metadata.appointment_id", valid.String())
	require.NoError(t, err)
	assert.Equal(t, valid, id)

	for _, bad := range []string{
		"not-an-id",
		"",
		"urn:uuid:" + valid.String(),
		"{" + valid.String() + "}",
		uuid.Nil.String(),
		"zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz",
	} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseReference("metadata.appointment_id", bad)
			assert.ErrorIs(t, err, domainErrors.ErrInvalidReference)
		})
	}
}

func TestParseOptionalReference(t *testing.T) {
	id, err := ParseOptionalReference("metadata.payment_intent_id", nil)
	require.NoError(t, err)
	assert.Nil(t, id)

	empty := ""
	id, err = ParseOptionalReference("metadata.payment_intent_id", &empty)
	require.NoError(t, err)
	assert.Nil(t, id)

	bad := "not-an-id"
	_, err = ParseOptionalReference("metadata.payment_intent_id", &bad)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidReference)

	good := uuid.NewString()
	id, err = ParseOptionalReference("metadata.payment_intent_id", &good)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, good, id.String())
}

func TestPaymentEvent_Amount(t *testing.T) {
	evt := &PaymentEvent{}
	assert.False(t, evt.HasAmount())
	assert.Equal(t, int64(0), evt.Amount())

	cents := int64(5000)
	evt.AmountCents = &cents
	assert.True(t, evt.HasAmount())
	assert.Equal(t, int64(5000), evt.Amount())
}

func TestNewAuditRecord(t *testing.T) {
	cents := int64(10000)
	booking := uuid.New()
	evt := &PaymentEvent{
		Gateway:           GatewayPaystack,
		Class:             ClassSuccess,
		EventType:         "charge.success",
		AmountCents:       &cents,
		BookingID:         &booking,
		ProviderReference: "ref-1",
	}

	rec := NewAuditRecord(evt, map[string]string{"update_booking": "ok"})

	assert.Equal(t, AuditEventType, rec.Type)
	assert.Equal(t, "100.00", rec.Amount)
	assert.Equal(t, &booking, rec.BookingID)
	assert.Equal(t, "ok", rec.Steps["update_booking"])
	assert.NotEqual(t, uuid.Nil, rec.ID)
}

func TestStage_Terminal(t *testing.T) {
	assert.True(t, StageAcknowledged.Terminal())
	assert.True(t, StageRejectedNoSig.Terminal())
	assert.True(t, StageConfigError.Terminal())
	assert.False(t, StageReceived.Terminal())
	assert.False(t, StageReconciled.Terminal())
}
