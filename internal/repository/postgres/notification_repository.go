package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/reconciler/internal/domain/notification"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository implements notification.Repository using PostgreSQL.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *notification.Notification) error {
	_, err := ConnFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO notifications (id, tenant_id, type, title, message, entity_type, entity_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.TenantID, string(n.Type), n.Title, n.Message, n.EntityType, n.EntityID, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
