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

// PropertyFilter captures property search parameters.
type PropertyFilter struct {
	OwnerID     *string
	MetroArea   *string
	City        *string
	Type        *domain.PropertyType
	MinBedrooms *int
	MaxRent     *int64
	ListedOnly  bool
	Available   *bool
	Limit       int
	Offset      int
}

// PropertyRepository encapsulates property persistence.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	ListWithFilter(ctx context.Context, filter PropertyFilter) ([]domain.Property, error)
}

type propertyRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyRepository instantiates repository.
func NewPropertyRepository(pool *pgxpool.Pool) PropertyRepository {
	return &propertyRepository{pool: pool}
}

const propertyColumns = `id, owner_id, title, description,
       street, city, state, postal_code, country,
       type, bedrooms, bathrooms, rent_amount, rent_currency,
       application_fee_amount, application_fee_currency,
       metro_area, is_listed, is_available, images,
       version, created_at, updated_at`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (id, owner_id, title, description,
            street, city, state, postal_code, country,
            type, bedrooms, bathrooms, rent_amount, rent_currency,
            application_fee_amount, application_fee_currency,
            metro_area, is_listed, is_available, images)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING version, created_at, updated_at`
	feeAmount, feeCurrency := moneyToNullable(property.ApplicationFee)
	return r.pool.QueryRow(ctx, query,
		property.ID,
		property.OwnerID,
		property.Title,
		property.Description,
		property.Address.Street,
		property.Address.City,
		property.Address.State,
		property.Address.PostalCode,
		property.Address.Country,
		property.Type,
		property.Bedrooms,
		property.Bathrooms,
		property.MonthlyRent.Amount,
		property.MonthlyRent.Currency,
		feeAmount,
		feeCurrency,
		property.MetroArea,
		property.IsListed,
		property.IsAvailable,
		property.Images,
	).Scan(&property.Version, &property.CreatedAt, &property.UpdatedAt)
}

func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	const query = `
        UPDATE properties SET title=$1, description=$2, rent_amount=$3, rent_currency=$4,
            application_fee_amount=$5, application_fee_currency=$6,
            is_listed=$7, is_available=$8, images=$9,
            version=version+1, updated_at=NOW()
        WHERE id=$10 AND version=$11
        RETURNING version, updated_at`
	feeAmount, feeCurrency := moneyToNullable(property.ApplicationFee)
	err := r.pool.QueryRow(ctx, query,
		property.Title,
		property.Description,
		property.MonthlyRent.Amount,
		property.MonthlyRent.Currency,
		feeAmount,
		feeCurrency,
		property.IsListed,
		property.IsAvailable,
		property.Images,
		property.ID,
		property.Version,
	).Scan(&property.Version, &property.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("property was modified concurrently", map[string]any{"property_id": property.ID})
	}
	return err
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id=$1`
	return scanProperty(r.pool.QueryRow(ctx, query, id))
}

func (r *propertyRepository) ListWithFilter(ctx context.Context, filter PropertyFilter) ([]domain.Property, error) {
	builder := psql.Select(propertyColumns).From("properties")
	if filter.OwnerID != nil {
		builder = builder.Where(sq.Eq{"owner_id": *filter.OwnerID})
	}
	if filter.MetroArea != nil {
		builder = builder.Where(sq.Eq{"metro_area": *filter.MetroArea})
	}
	if filter.City != nil {
		builder = builder.Where(sq.Eq{"city": *filter.City})
	}
	if filter.Type != nil {
		builder = builder.Where(sq.Eq{"type": *filter.Type})
	}
	if filter.MinBedrooms != nil {
		builder = builder.Where(sq.GtOrEq{"bedrooms": *filter.MinBedrooms})
	}
	if filter.MaxRent != nil {
		builder = builder.Where(sq.LtOrEq{"rent_amount": *filter.MaxRent})
	}
	if filter.ListedOnly {
		builder = builder.Where(sq.Eq{"is_listed": true})
	}
	if filter.Available != nil {
		builder = builder.Where(sq.Eq{"is_available": *filter.Available})
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

	var result []domain.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *property)
	}
	return result, rows.Err()
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var property domain.Property
	var feeAmount *int64
	var feeCurrency *string
	if err := row.Scan(
		&property.ID,
		&property.OwnerID,
		&property.Title,
		&property.Description,
		&property.Address.Street,
		&property.Address.City,
		&property.Address.State,
		&property.Address.PostalCode,
		&property.Address.Country,
		&property.Type,
		&property.Bedrooms,
		&property.Bathrooms,
		&property.MonthlyRent.Amount,
		&property.MonthlyRent.Currency,
		&feeAmount,
		&feeCurrency,
		&property.MetroArea,
		&property.IsListed,
		&property.IsAvailable,
		&property.Images,
		&property.Version,
		&property.CreatedAt,
		&property.UpdatedAt,
	); err != nil {
		return nil, err
	}
	property.ApplicationFee = moneyFromNullable(feeAmount, feeCurrency)
	return &property, nil
}
