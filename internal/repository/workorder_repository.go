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

// WorkOrderFilter captures work-order listing parameters.
type WorkOrderFilter struct {
	PropertyID *string
	// PropertyOwnerID restricts to orders on properties owned by the
	// given user.
	PropertyOwnerID *string
	LeaseID         *string
	RequestedBy     *string
	AssignedTo      *string
	Statuses        []domain.WorkOrderStatus
	Priorities      []domain.WorkOrderPriority
	Limit           int
	Offset          int
}

// WorkOrderRepository encapsulates work-order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, order *domain.WorkOrder) error
	Update(ctx context.Context, order *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error)
}

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository instantiates repository.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

const workOrderColumns = `id, property_id, lease_id, requested_by, title, description,
       category, priority, status, assigned_to, approved_by, approved_at,
       assigned_at, started_at, completed_at,
       estimated_cost_amount, estimated_cost_currency,
       actual_cost_amount, actual_cost_currency,
       notes, images, version, created_at, updated_at`

func (r *workOrderRepository) Create(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        INSERT INTO work_orders (id, property_id, lease_id, requested_by, title, description,
            category, priority, status, notes, images)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.ID,
		order.PropertyID,
		order.LeaseID,
		order.RequestedBy,
		order.Title,
		order.Description,
		order.Category,
		order.Priority,
		order.Status,
		order.Notes,
		order.Images,
	).Scan(&order.Version, &order.CreatedAt, &order.UpdatedAt)
}

// Update persists mutable work-order state, guarded by the version
// counter so two simultaneous transitions cannot both win.
func (r *workOrderRepository) Update(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        UPDATE work_orders SET status=$1, assigned_to=$2, approved_by=$3, approved_at=$4,
            assigned_at=$5, started_at=$6, completed_at=$7,
            estimated_cost_amount=$8, estimated_cost_currency=$9,
            actual_cost_amount=$10, actual_cost_currency=$11,
            notes=$12, images=$13, version=version+1, updated_at=NOW()
        WHERE id=$14 AND version=$15
        RETURNING version, updated_at`
	estAmount, estCurrency := moneyToNullable(order.EstimatedCost)
	actAmount, actCurrency := moneyToNullable(order.ActualCost)
	err := r.pool.QueryRow(ctx, query,
		order.Status,
		order.AssignedTo,
		order.ApprovedBy,
		order.ApprovedAt,
		order.AssignedAt,
		order.StartedAt,
		order.CompletedAt,
		estAmount,
		estCurrency,
		actAmount,
		actCurrency,
		order.Notes,
		order.Images,
		order.ID,
		order.Version,
	).Scan(&order.Version, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("work order was modified concurrently", map[string]any{"work_order_id": order.ID})
	}
	return err
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id=$1`
	return scanWorkOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *workOrderRepository) ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error) {
	builder := psql.Select(workOrderColumns).From("work_orders")
	if filter.PropertyID != nil {
		builder = builder.Where(sq.Eq{"property_id": *filter.PropertyID})
	}
	if filter.PropertyOwnerID != nil {
		builder = builder.Where("property_id IN (SELECT id FROM properties WHERE owner_id = ?)", *filter.PropertyOwnerID)
	}
	if filter.LeaseID != nil {
		builder = builder.Where(sq.Eq{"lease_id": *filter.LeaseID})
	}
	if filter.RequestedBy != nil {
		builder = builder.Where(sq.Eq{"requested_by": *filter.RequestedBy})
	}
	if filter.AssignedTo != nil {
		builder = builder.Where(sq.Eq{"assigned_to": *filter.AssignedTo})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}
	if len(filter.Priorities) > 0 {
		builder = builder.Where(sq.Eq{"priority": filter.Priorities})
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

	var result []domain.WorkOrder
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

func scanWorkOrder(row pgx.Row) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	var estAmount, actAmount *int64
	var estCurrency, actCurrency *string
	if err := row.Scan(
		&order.ID,
		&order.PropertyID,
		&order.LeaseID,
		&order.RequestedBy,
		&order.Title,
		&order.Description,
		&order.Category,
		&order.Priority,
		&order.Status,
		&order.AssignedTo,
		&order.ApprovedBy,
		&order.ApprovedAt,
		&order.AssignedAt,
		&order.StartedAt,
		&order.CompletedAt,
		&estAmount,
		&estCurrency,
		&actAmount,
		&actCurrency,
		&order.Notes,
		&order.Images,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	order.EstimatedCost = moneyFromNullable(estAmount, estCurrency)
	order.ActualCost = moneyFromNullable(actAmount, actCurrency)
	return &order, nil
}
