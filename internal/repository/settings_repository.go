package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwhayford/rental-service/internal/domain"
)

// SettingsRepository reads and writes org-wide application settings.
type SettingsRepository interface {
	// Get returns the settings row, or nil when none has been saved yet.
	Get(ctx context.Context) (*domain.ApplicationSettings, error)
	Upsert(ctx context.Context, settings *domain.ApplicationSettings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.ApplicationSettings, error) {
	const query = `
        SELECT id, default_fee_amount, default_fee_currency, default_currency, updated_at
        FROM application_settings LIMIT 1`
	var settings domain.ApplicationSettings
	var feeAmount *int64
	var feeCurrency *string
	err := r.pool.QueryRow(ctx, query).Scan(
		&settings.ID,
		&feeAmount,
		&feeCurrency,
		&settings.DefaultCurrency,
		&settings.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	settings.DefaultApplicationFee = moneyFromNullable(feeAmount, feeCurrency)
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *domain.ApplicationSettings) error {
	const query = `
        INSERT INTO application_settings (id, default_fee_amount, default_fee_currency, default_currency)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (id) DO UPDATE SET
            default_fee_amount=EXCLUDED.default_fee_amount,
            default_fee_currency=EXCLUDED.default_fee_currency,
            default_currency=EXCLUDED.default_currency,
            updated_at=NOW()
        RETURNING updated_at`
	feeAmount, feeCurrency := moneyToNullable(settings.DefaultApplicationFee)
	return r.pool.QueryRow(ctx, query,
		settings.ID,
		feeAmount,
		feeCurrency,
		settings.DefaultCurrency,
	).Scan(&settings.UpdatedAt)
}
