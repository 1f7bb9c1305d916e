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

// ApplicationFilter captures application listing parameters.
type ApplicationFilter struct {
	PropertyID *string
	// PropertyOwnerID restricts to applications on properties owned by
	// the given user.
	PropertyOwnerID *string
	ApplicantID     *string
	Statuses        []domain.ApplicationStatus
	Limit           int
	Offset          int
}

// ApplicationRepository encapsulates tenant application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.PropertyApplication) error
	Update(ctx context.Context, app *domain.PropertyApplication) error
	GetByID(ctx context.Context, id string) (*domain.PropertyApplication, error)
	ListWithFilter(ctx context.Context, filter ApplicationFilter) ([]domain.PropertyApplication, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, property_id, applicant_id, status, application_data,
       fee_amount, fee_currency, fee_payment_id,
       submitted_at, reviewed_at, reviewed_by, decision_notes,
       version, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.PropertyApplication) error {
	const query = `
        INSERT INTO property_applications (id, property_id, applicant_id, status,
            application_data, fee_amount, fee_currency)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		app.ID,
		app.PropertyID,
		app.ApplicantID,
		app.Status,
		app.ApplicationData,
		app.ApplicationFee.Amount,
		app.ApplicationFee.Currency,
	).Scan(&app.Version, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.PropertyApplication) error {
	const query = `
        UPDATE property_applications SET status=$1, fee_payment_id=$2, submitted_at=$3,
            reviewed_at=$4, reviewed_by=$5, decision_notes=$6,
            version=version+1, updated_at=NOW()
        WHERE id=$7 AND version=$8
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		app.Status,
		app.ApplicationFeePaymentID,
		app.SubmittedAt,
		app.ReviewedAt,
		app.ReviewedBy,
		app.DecisionNotes,
		app.ID,
		app.Version,
	).Scan(&app.Version, &app.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("application was modified concurrently", map[string]any{"application_id": app.ID})
	}
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.PropertyApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM property_applications WHERE id=$1`
	return scanApplication(r.pool.QueryRow(ctx, query, id))
}

func (r *applicationRepository) ListWithFilter(ctx context.Context, filter ApplicationFilter) ([]domain.PropertyApplication, error) {
	builder := psql.Select(applicationColumns).From("property_applications")
	if filter.PropertyID != nil {
		builder = builder.Where(sq.Eq{"property_id": *filter.PropertyID})
	}
	if filter.PropertyOwnerID != nil {
		builder = builder.Where("property_id IN (SELECT id FROM properties WHERE owner_id = ?)", *filter.PropertyOwnerID)
	}
	if filter.ApplicantID != nil {
		builder = builder.Where(sq.Eq{"applicant_id": *filter.ApplicantID})
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

	var result []domain.PropertyApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *app)
	}
	return result, rows.Err()
}

func scanApplication(row pgx.Row) (*domain.PropertyApplication, error) {
	var app domain.PropertyApplication
	if err := row.Scan(
		&app.ID,
		&app.PropertyID,
		&app.ApplicantID,
		&app.Status,
		&app.ApplicationData,
		&app.ApplicationFee.Amount,
		&app.ApplicationFee.Currency,
		&app.ApplicationFeePaymentID,
		&app.SubmittedAt,
		&app.ReviewedAt,
		&app.ReviewedBy,
		&app.DecisionNotes,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}
