package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwhayford/rental-service/internal/domain"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// PaymentRepository encapsulates payment record persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	Update(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, user_id, purpose, reference_id, amount, currency,
       refunded_amount, refunded_currency, status, gateway_intent_id, failure_reason,
       version, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (id, user_id, purpose, reference_id, amount, currency,
            status, gateway_intent_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Purpose,
		payment.ReferenceID,
		payment.Amount.Amount,
		payment.Amount.Currency,
		payment.Status,
		payment.GatewayIntentID,
	).Scan(&payment.Version, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	const query = `
        UPDATE payments SET status=$1, refunded_amount=$2, refunded_currency=$3,
            gateway_intent_id=$4, failure_reason=$5, version=version+1, updated_at=NOW()
        WHERE id=$6 AND version=$7
        RETURNING version, updated_at`
	refAmount, refCurrency := moneyToNullable(payment.RefundedAmount)
	err := r.pool.QueryRow(ctx, query,
		payment.Status,
		refAmount,
		refCurrency,
		payment.GatewayIntentID,
		payment.FailureReason,
		payment.ID,
		payment.Version,
	).Scan(&payment.Version, &payment.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("payment was modified concurrently", map[string]any{"payment_id": payment.ID})
	}
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

func (r *paymentRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_intent_id=$1`
	return scanPayment(r.pool.QueryRow(ctx, query, intentID))
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
        WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *payment)
	}
	return result, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var refAmount *int64
	var refCurrency *string
	if err := row.Scan(
		&payment.ID,
		&payment.UserID,
		&payment.Purpose,
		&payment.ReferenceID,
		&payment.Amount.Amount,
		&payment.Amount.Currency,
		&refAmount,
		&refCurrency,
		&payment.Status,
		&payment.GatewayIntentID,
		&payment.FailureReason,
		&payment.Version,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	payment.RefundedAmount = moneyFromNullable(refAmount, refCurrency)
	return &payment, nil
}
