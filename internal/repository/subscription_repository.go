package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwhayford/rental-service/internal/domain"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// SubscriptionRepository encapsulates subscription record persistence.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, user_id, plan_code, amount, currency, status,
       gateway_subscription_id, current_period_end, canceled_at,
       version, created_at, updated_at`

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (id, user_id, plan_code, amount, currency, status,
            gateway_subscription_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		sub.ID,
		sub.UserID,
		sub.PlanCode,
		sub.Amount.Amount,
		sub.Amount.Currency,
		sub.Status,
		sub.GatewaySubscriptionID,
	).Scan(&sub.Version, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        UPDATE subscriptions SET status=$1, gateway_subscription_id=$2,
            current_period_end=$3, canceled_at=$4, version=version+1, updated_at=NOW()
        WHERE id=$5 AND version=$6
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		sub.Status,
		sub.GatewaySubscriptionID,
		sub.CurrentPeriodEnd,
		sub.CanceledAt,
		sub.ID,
		sub.Version,
	).Scan(&sub.Version, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("subscription was modified concurrently", map[string]any{"subscription_id": sub.ID})
	}
	return err
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1`
	return scanSubscription(r.pool.QueryRow(ctx, query, id))
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
        WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	return result, rows.Err()
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanCode,
		&sub.Amount.Amount,
		&sub.Amount.Currency,
		&sub.Status,
		&sub.GatewaySubscriptionID,
		&sub.CurrentPeriodEnd,
		&sub.CanceledAt,
		&sub.Version,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
