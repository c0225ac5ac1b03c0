package redis

import (
	"context"
	"encoding/json"
	"fmt"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/redis/go-redis/v9"
)

// streamMaxLen bounds the audit stream; trimming is approximate.
const streamMaxLen = 100_000

// StreamAdder is the part of *redis.Client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher appends reconciliation audit records to a Redis stream.
type StreamPublisher struct {
	client StreamAdder
	stream string
}

func NewStreamPublisher(client StreamAdder, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Name() string { return "redis" }

func (p *StreamPublisher) Publish(ctx context.Context, rec *webhook.AuditRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"event_id":   rec.ID.String(),
			"event_type": rec.Type,
			"gateway":    string(rec.Gateway),
			"payload":    string(payload),
			"timestamp":  rec.OccurredAt.Unix(),
		},
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("%w: xadd %s: %w", domainErrors.ErrSinkUnavailable, p.stream, err)
	}
	return nil
}
