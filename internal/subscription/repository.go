// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/soundline/internal/core"
)

const paymentColumns = `
	id, user_id, plan, amount_inr, reference, status, note,
	reviewed_by, reviewed_at, created_at`

type Repository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPayment(ctx context.Context, id string) (*Payment, error)
	LatestPaymentForUser(ctx context.Context, userID string) (*Payment, error)
	ListPendingPayments(ctx context.Context) ([]Payment, error)
	ReviewPayment(
		ctx context.Context,
		id, status, reviewerID string,
		note *string,
	) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePayment(
	ctx context.Context,
	payment *Payment,
) error {
	query := `
		INSERT INTO payments (id, user_id, plan, amount_inr, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &payment.CreatedAt, query,
		payment.ID,
		payment.UserID,
		payment.Plan,
		payment.AmountINR,
		payment.Reference,
		payment.Status,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *repository) GetPayment(
	ctx context.Context,
	id string,
) (*Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments WHERE id = $1`, paymentColumns)

	var payment Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &payment, nil
}

func (r *repository) LatestPaymentForUser(
	ctx context.Context,
	userID string,
) (*Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, paymentColumns)

	var payment Payment
	err := r.db.GetContext(ctx, &payment, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest payment: %w", err)
	}

	return &payment, nil
}

func (r *repository) ListPendingPayments(
	ctx context.Context,
) ([]Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE status = $1
		ORDER BY created_at`, paymentColumns)

	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, query, PaymentPending)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}

	return payments, nil
}

func (r *repository) ReviewPayment(
	ctx context.Context,
	id, status, reviewerID string,
	note *string,
) error {
	query := `
		UPDATE payments
		SET status = $2, reviewed_by = $3, note = $4, reviewed_at = NOW()
		WHERE id = $1 AND status = $5`

	result, err := r.db.ExecContext(
		ctx, query, id, status, reviewerID, note, PaymentPending)
	if err != nil {
		return fmt.Errorf("review payment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("review payment: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("review payment: %w", core.ErrNotFound)
	}

	return nil
}
