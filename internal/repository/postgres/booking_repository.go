package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/reconciler/internal/domain/booking"
	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository implements booking.Repository using PostgreSQL.
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// UpdatePaymentStatus overwrites payment_status and amount_paid. Concurrent
// deliveries for one booking race and the last write wins.
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status booking.PaymentStatus, amountPaidCents int64) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE bookings SET payment_status = $1, amount_paid = $2, updated_at = NOW()
		 WHERE id = $3`,
		string(status), centsToNumericString(amountPaidCents), id,
	)
	if err != nil {
		return fmt.Errorf("update booking payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b := &booking.Booking{}
	var status, total, paid string
	err := r.db(ctx).QueryRow(ctx,
		`SELECT id, tenant_id, customer_id, total_amount, amount_paid, payment_status, updated_at
		 FROM bookings WHERE id = $1`, id,
	).Scan(&b.ID, &b.TenantID, &b.CustomerID, &total, &paid, &status, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	if b.TotalCents, err = numericStringToCents(total); err != nil {
		return nil, fmt.Errorf("parse total_amount: %w", err)
	}
	if b.AmountPaid, err = numericStringToCents(paid); err != nil {
		return nil, fmt.Errorf("parse amount_paid: %w", err)
	}
	b.PaymentStatus = booking.PaymentStatus(status)
	return b, nil
}
