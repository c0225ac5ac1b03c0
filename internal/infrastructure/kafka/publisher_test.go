package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []skafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewPublisherWithWriter(fw)

	rec := webhook.NewAuditRecord(&webhook.PaymentEvent{
		Gateway:           webhook.GatewayPaystack,
		Class:             webhook.ClassFailure,
		EventType:         "charge.failed",
		ProviderReference: "ref-9",
	}, map[string]string{"fail_payment_intent": "ok"})

	require.NoError(t, p.Publish(context.Background(), rec))
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, "paystack:ref-9", string(msg.Key))
	assert.Equal(t, webhook.AuditEventType, string(msg.Headers[0].Value))

	var decoded webhook.AuditRecord
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, webhook.ClassFailure, decoded.Class)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
	assert.Equal(t, "kafka", p.Name())
}

func TestPublisher_WriteError(t *testing.T) {
	p := NewPublisherWithWriter(&fakeWriter{err: errors.New("leader not available")})

	err := p.Publish(context.Background(), webhook.NewAuditRecord(&webhook.PaymentEvent{}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
	assert.ErrorIs(t, err, domainErrors.ErrSinkUnavailable)
}
