package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Publisher writes reconciliation audit records to a Kafka topic, keyed by
// provider reference so records for one payment land on one partition.
type Publisher struct {
	writer Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{writer: &skafka.Writer{
		Addr:         skafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &skafka.Hash{},
		RequiredAcks: skafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// NewPublisherWithWriter allows injecting a test writer.
func NewPublisherWithWriter(w Writer) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Publish(ctx context.Context, rec *webhook.AuditRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	msg := skafka.Message{
		Key:   []byte(string(rec.Gateway) + ":" + rec.ProviderReference),
		Value: value,
		Headers: []skafka.Header{
			{Key: "event_type", Value: []byte(rec.Type)},
			{Key: "event_id", Value: []byte(rec.ID.String())},
		},
		Time: rec.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: kafka write: %w", domainErrors.ErrSinkUnavailable, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
