package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/reconciler/internal/domain/ledger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository implements ledger.Repository using PostgreSQL.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Insert appends e. Nothing deduplicates on (gateway, reference).
func (r *LedgerRepository) Insert(ctx context.Context, e *ledger.Entry) error {
	_, err := ConnFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO ledger_entries (id, tenant_id, booking_id, customer_id, entry_type, amount, gateway, reference, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.TenantID, e.BookingID, e.CustomerID, string(e.Type), centsToNumericString(e.AmountCents),
		string(e.Gateway), e.Reference, string(e.Status), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}
