package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/jobs"
	"github.com/mwhayford/rental-service/internal/repository"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// WorkOrderService coordinates maintenance workflows.
type WorkOrderService struct {
	orders     repository.WorkOrderRepository
	leases     repository.LeaseRepository
	properties repository.PropertyRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	enqueuer   jobs.Enqueuer
}

// WorkOrderDependencies bundles collaborators for the work-order service.
type WorkOrderDependencies struct {
	WorkOrderRepo repository.WorkOrderRepository
	LeaseRepo     repository.LeaseRepository
	PropertyRepo  repository.PropertyRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
	Enqueuer      jobs.Enqueuer
}

// NewWorkOrderService constructs the service.
func NewWorkOrderService(deps WorkOrderDependencies) *WorkOrderService {
	return &WorkOrderService{
		orders:     deps.WorkOrderRepo,
		leases:     deps.LeaseRepo,
		properties: deps.PropertyRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		enqueuer:   deps.Enqueuer,
	}
}

// WorkOrderCreateInput describes a maintenance request payload.
type WorkOrderCreateInput struct {
	LeaseID     string
	Title       string
	Description string
	Category    domain.WorkOrderCategory
	Priority    domain.WorkOrderPriority
}

// CreateWorkOrder files a maintenance request against the actor's lease.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, actor *domain.User, input WorkOrderCreateInput) (*domain.WorkOrder, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	lease, err := s.leases.GetByID(ctx, input.LeaseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("lease", map[string]any{"lease_id": input.LeaseID})
		}
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && lease.TenantID != actor.ID && lease.LandlordID != actor.ID {
		return nil, apperrors.NewForbidden("only the tenant or landlord can file a work order")
	}
	if !lease.IsActive() {
		return nil, apperrors.NewInvalidState("work orders can only be filed against an active lease")
	}

	order, err := domain.NewWorkOrder(lease.PropertyID, lease.ID, actor.ID,
		input.Title, input.Description, input.Category, input.Priority)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, order, actor.ID)
	return order, nil
}

// ApproveWorkOrder approves a requested order.
func (s *WorkOrderService) ApproveWorkOrder(ctx context.Context, actor *domain.User, orderID string) (*domain.WorkOrder, error) {
	order, err := s.getOrderForOwner(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Approve(actor.ID, time.Now()); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, order, actor.ID)
}

// RejectWorkOrder declines a requested order.
func (s *WorkOrderService) RejectWorkOrder(ctx context.Context, actor *domain.User, orderID, reason string) (*domain.WorkOrder, error) {
	order, err := s.getOrderForOwner(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Reject(actor.ID, reason); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, order, actor.ID)
}

// AssignWorkOrder hands an approved order to a contractor.
func (s *WorkOrderService) AssignWorkOrder(ctx context.Context, actor *domain.User, orderID, assigneeID string) (*domain.WorkOrder, error) {
	order, err := s.getOrderForOwner(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"assignee_id": assigneeID})
		}
		return nil, err
	}
	if assignee.Role != domain.RoleContractor {
		return nil, apperrors.NewValidationError("work orders can only be assigned to contractors", nil)
	}
	if err := order.Assign(assignee.ID, time.Now()); err != nil {
		return nil, err
	}
	saved, err := s.saveAndPublish(ctx, order, actor.ID)
	if err != nil {
		return nil, err
	}
	s.enqueueEmail(ctx, jobs.JobWorkOrderAssigned, map[string]any{
		"work_order_id": order.ID,
		"assigned_to":   assignee.ID,
	})
	return saved, nil
}

// StartWorkOrder begins work; only the assigned contractor may start.
func (s *WorkOrderService) StartWorkOrder(ctx context.Context, actor *domain.User, orderID string) (*domain.WorkOrder, error) {
	order, err := s.getOrderForContractor(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Start(time.Now()); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, order, actor.ID)
}

// CompleteWorkOrder finishes work; only the assigned contractor may
// complete.
func (s *WorkOrderService) CompleteWorkOrder(ctx context.Context, actor *domain.User, orderID string, actualCost *domain.Money, notes string) (*domain.WorkOrder, error) {
	order, err := s.getOrderForContractor(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Complete(actualCost, notes, time.Now()); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, order, actor.ID)
}

// CancelWorkOrder aborts a non-terminal order.
func (s *WorkOrderService) CancelWorkOrder(ctx context.Context, actor *domain.User, orderID, reason string) (*domain.WorkOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleAdmin && order.RequestedBy != actor.ID {
		if allowed, err := s.actorOwnsProperty(ctx, actor, order.PropertyID); err != nil {
			return nil, err
		} else if !allowed {
			return nil, apperrors.NewForbidden("access denied")
		}
	}
	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, order, actor.ID)
}

// UpdateEstimatedCost records the owner's cost estimate.
func (s *WorkOrderService) UpdateEstimatedCost(ctx context.Context, actor *domain.User, orderID string, cost domain.Money) (*domain.WorkOrder, error) {
	order, err := s.getOrderForOwner(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateEstimatedCost(cost); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, order, actor.ID)
}

// AddImage attaches an image URL to the order; duplicates are ignored.
func (s *WorkOrderService) AddImage(ctx context.Context, actor *domain.User, orderID, url string) (*domain.WorkOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if err := order.AddImage(url); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, order, actor.ID)
}

// GetWorkOrder fetches an order visible to the actor.
func (s *WorkOrderService) GetWorkOrder(ctx context.Context, actor *domain.User, orderID string) (*domain.WorkOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role == domain.RoleAdmin || order.RequestedBy == actor.ID {
		return order, nil
	}
	if order.AssignedTo != nil && *order.AssignedTo == actor.ID {
		return order, nil
	}
	if allowed, err := s.actorOwnsProperty(ctx, actor, order.PropertyID); err != nil {
		return nil, err
	} else if allowed {
		return order, nil
	}
	return nil, apperrors.NewForbidden("access denied")
}

// ListWorkOrders returns orders scoped to the actor.
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, actor *domain.User, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RolePropertyOwner:
		filter.PropertyOwnerID = &actor.ID
	case domain.RoleContractor:
		filter.AssignedTo = &actor.ID
	default:
		filter.RequestedBy = &actor.ID
	}
	return s.orders.ListWithFilter(ctx, filter)
}

func (s *WorkOrderService) saveAndPublish(ctx context.Context, order *domain.WorkOrder, actorID string) (*domain.WorkOrder, error) {
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, order, actorID)
	return order, nil
}

func (s *WorkOrderService) getOrder(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order_id": orderID})
		}
		return nil, err
	}
	return order, nil
}

func (s *WorkOrderService) getOrderForOwner(ctx context.Context, actor *domain.User, orderID string) (*domain.WorkOrder, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin {
		if allowed, err := s.actorOwnsProperty(ctx, actor, order.PropertyID); err != nil {
			return nil, err
		} else if !allowed {
			return nil, apperrors.NewForbidden("only the property owner can manage this work order")
		}
	}
	return order, nil
}

func (s *WorkOrderService) getOrderForContractor(ctx context.Context, actor *domain.User, orderID string) (*domain.WorkOrder, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleAdmin {
		return order, nil
	}
	if order.AssignedTo == nil || *order.AssignedTo != actor.ID {
		return nil, apperrors.NewForbidden("only the assigned contractor can perform this step")
	}
	return order, nil
}

func (s *WorkOrderService) actorOwnsProperty(ctx context.Context, actor *domain.User, propertyID string) (bool, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return property.OwnerID == actor.ID, nil
}

func (s *WorkOrderService) enqueueEmail(ctx context.Context, jobType string, payload map[string]any) {
	if s.enqueuer == nil {
		return
	}
	_, _ = s.enqueuer.Enqueue(ctx, jobType, payload)
}
