package postgres

import (
	"context"
	"fmt"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/intent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentIntentRepository implements intent.Repository using PostgreSQL.
type PaymentIntentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentIntentRepository(pool *pgxpool.Pool) *PaymentIntentRepository {
	return &PaymentIntentRepository{pool: pool}
}

func (r *PaymentIntentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status intent.Status, reference string) error {
	tag, err := ConnFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE payment_intents SET status = $1, provider_reference = NULLIF($2, ''), updated_at = NOW()
		 WHERE id = $3`,
		string(status), reference, id,
	)
	if err != nil {
		return fmt.Errorf("update payment intent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrPaymentIntentNotFound
	}
	return nil
}
