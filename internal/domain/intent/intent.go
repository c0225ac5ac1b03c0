package intent

import (
	"context"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a payment intent.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Repository updates tracked payment intents.
type Repository interface {
	// UpdateStatus sets the status and records the provider reference that
	// settled or failed the intent. Returns ErrPaymentIntentNotFound when
	// no row matches.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, reference string) error
}
