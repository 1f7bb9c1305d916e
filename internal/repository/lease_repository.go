package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwhayford/rental-service/internal/domain"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// LeaseFilter captures lease listing parameters.
type LeaseFilter struct {
	PropertyID *string
	TenantID   *string
	LandlordID *string
	Statuses   []domain.LeaseStatus
	Limit      int
	Offset     int
}

// LeaseRepository encapsulates lease persistence.
type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.Lease) error
	Update(ctx context.Context, lease *domain.Lease) error
	GetByID(ctx context.Context, id string) (*domain.Lease, error)
	ListWithFilter(ctx context.Context, filter LeaseFilter) ([]domain.Lease, error)
	CreateRenewal(ctx context.Context, current, renewal *domain.Lease) error
}

type leaseRepository struct {
	pool *pgxpool.Pool
}

// NewLeaseRepository instantiates repository.
func NewLeaseRepository(pool *pgxpool.Pool) LeaseRepository {
	return &leaseRepository{pool: pool}
}

const leaseColumns = `id, property_id, tenant_id, landlord_id, start_date, end_date,
       rent_amount, rent_currency, deposit_amount, deposit_currency,
       payment_frequency, payment_day_of_month, status, special_terms,
       activated_at, terminated_at, termination_reason, property_application_id,
       version, created_at, updated_at`

const leaseInsert = `
        INSERT INTO leases (id, property_id, tenant_id, landlord_id, start_date, end_date,
            rent_amount, rent_currency, deposit_amount, deposit_currency,
            payment_frequency, payment_day_of_month, status, special_terms,
            activated_at, terminated_at, termination_reason, property_application_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING version, created_at, updated_at`

const leaseUpdate = `
        UPDATE leases SET end_date=$1, rent_amount=$2, rent_currency=$3,
            status=$4, special_terms=$5, activated_at=$6, terminated_at=$7,
            termination_reason=$8, version=version+1, updated_at=NOW()
        WHERE id=$9 AND version=$10
        RETURNING version, updated_at`

func (r *leaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	return r.insert(ctx, r.pool, lease)
}

func (r *leaseRepository) insert(ctx context.Context, q querier, lease *domain.Lease) error {
	return q.QueryRow(ctx, leaseInsert,
		lease.ID,
		lease.PropertyID,
		lease.TenantID,
		lease.LandlordID,
		lease.StartDate,
		lease.EndDate,
		lease.MonthlyRent.Amount,
		lease.MonthlyRent.Currency,
		lease.SecurityDeposit.Amount,
		lease.SecurityDeposit.Currency,
		lease.PaymentFrequency,
		lease.PaymentDayOfMonth,
		lease.Status,
		lease.SpecialTerms,
		lease.ActivatedAt,
		lease.TerminatedAt,
		lease.TerminationReason,
		lease.PropertyApplicationID,
	).Scan(&lease.Version, &lease.CreatedAt, &lease.UpdatedAt)
}

// Update persists mutable lease state, guarded by the version counter.
// A stale version means another request changed the lease first.
func (r *leaseRepository) Update(ctx context.Context, lease *domain.Lease) error {
	return r.update(ctx, r.pool, lease)
}

func (r *leaseRepository) update(ctx context.Context, q querier, lease *domain.Lease) error {
	err := q.QueryRow(ctx, leaseUpdate,
		lease.EndDate,
		lease.MonthlyRent.Amount,
		lease.MonthlyRent.Currency,
		lease.Status,
		lease.SpecialTerms,
		lease.ActivatedAt,
		lease.TerminatedAt,
		lease.TerminationReason,
		lease.ID,
		lease.Version,
	).Scan(&lease.Version, &lease.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("lease was modified concurrently", map[string]any{"lease_id": lease.ID})
	}
	return err
}

// CreateRenewal persists the renewed lease and its replacement in one
// transaction; the two must land together.
func (r *leaseRepository) CreateRenewal(ctx context.Context, current, renewal *domain.Lease) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := r.update(ctx, tx, current); err != nil {
		return err
	}
	if err := r.insert(ctx, tx, renewal); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *leaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanLease(row)
}

func (r *leaseRepository) ListWithFilter(ctx context.Context, filter LeaseFilter) ([]domain.Lease, error) {
	builder := psql.Select(leaseColumns).From("leases")
	if filter.PropertyID != nil {
		builder = builder.Where(sq.Eq{"property_id": *filter.PropertyID})
	}
	if filter.TenantID != nil {
		builder = builder.Where(sq.Eq{"tenant_id": *filter.TenantID})
	}
	if filter.LandlordID != nil {
		builder = builder.Where(sq.Eq{"landlord_id": *filter.LandlordID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}
	builder = builder.OrderBy("created_at DESC").
		Limit(uint64(normalizeLimit(filter.Limit))).
		Offset(uint64(normalizeOffset(filter.Offset)))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Lease
	for rows.Next() {
		lease, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *lease)
	}
	return result, rows.Err()
}

func scanLease(row pgx.Row) (*domain.Lease, error) {
	var lease domain.Lease
	if err := row.Scan(
		&lease.ID,
		&lease.PropertyID,
		&lease.TenantID,
		&lease.LandlordID,
		&lease.StartDate,
		&lease.EndDate,
		&lease.MonthlyRent.Amount,
		&lease.MonthlyRent.Currency,
		&lease.SecurityDeposit.Amount,
		&lease.SecurityDeposit.Currency,
		&lease.PaymentFrequency,
		&lease.PaymentDayOfMonth,
		&lease.Status,
		&lease.SpecialTerms,
		&lease.ActivatedAt,
		&lease.TerminatedAt,
		&lease.TerminationReason,
		&lease.PropertyApplicationID,
		&lease.Version,
		&lease.CreatedAt,
		&lease.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lease, nil
}
