package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mwhayford/rental-service/internal/api/dto"
	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/repository"
	"github.com/mwhayford/rental-service/internal/service"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// WorkOrdersHandler manages maintenance workflow endpoints.
type WorkOrdersHandler struct {
	service *service.WorkOrderService
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(workOrderService *service.WorkOrderService) *WorkOrdersHandler {
	return &WorkOrdersHandler{service: workOrderService}
}

// CreateWorkOrder POST /workorders.
func (h *WorkOrdersHandler) CreateWorkOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.LeaseID == "" || req.Title == "" {
		return apperrors.NewValidationError("lease_id and title required", nil)
	}
	order, err := h.service.CreateWorkOrder(c.Context(), principal.User, service.WorkOrderCreateInput{
		LeaseID:     req.LeaseID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": workOrderResponse(order)})
}

// ApproveWorkOrder POST /workorders/:id/approve.
func (h *WorkOrdersHandler) ApproveWorkOrder(c *fiber.Ctx) error {
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.ApproveWorkOrder(c.Context(), actor, orderID)
	})
}

// RejectWorkOrder POST /workorders/:id/reject.
func (h *WorkOrdersHandler) RejectWorkOrder(c *fiber.Ctx) error {
	var req dto.RejectWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.RejectWorkOrder(c.Context(), actor, orderID, req.Reason)
	})
}

// AssignWorkOrder POST /workorders/:id/assign.
func (h *WorkOrdersHandler) AssignWorkOrder(c *fiber.Ctx) error {
	var req dto.AssignWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.AssignWorkOrder(c.Context(), actor, orderID, req.AssigneeID)
	})
}

// StartWorkOrder POST /workorders/:id/start.
func (h *WorkOrdersHandler) StartWorkOrder(c *fiber.Ctx) error {
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.StartWorkOrder(c.Context(), actor, orderID)
	})
}

// CompleteWorkOrder POST /workorders/:id/complete.
func (h *WorkOrdersHandler) CompleteWorkOrder(c *fiber.Ctx) error {
	var req dto.CompleteWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	var actualCost *domain.Money
	if req.ActualCost != nil {
		cost, err := req.ActualCost.ToMoney()
		if err != nil {
			return err
		}
		actualCost = &cost
	}
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.CompleteWorkOrder(c.Context(), actor, orderID, actualCost, req.Notes)
	})
}

// CancelWorkOrder POST /workorders/:id/cancel.
func (h *WorkOrdersHandler) CancelWorkOrder(c *fiber.Ctx) error {
	var req dto.CancelWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.CancelWorkOrder(c.Context(), actor, orderID, req.Reason)
	})
}

// UpdateEstimatedCost POST /workorders/:id/estimate.
func (h *WorkOrdersHandler) UpdateEstimatedCost(c *fiber.Ctx) error {
	var req dto.EstimatedCostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cost, err := req.EstimatedCost.ToMoney()
	if err != nil {
		return err
	}
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.UpdateEstimatedCost(c.Context(), actor, orderID, cost)
	})
}

// AddImage POST /workorders/:id/images.
func (h *WorkOrdersHandler) AddImage(c *fiber.Ctx) error {
	var req dto.ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(actor *domain.User, orderID string) (*domain.WorkOrder, error) {
		return h.service.AddImage(c.Context(), actor, orderID, req.URL)
	})
}

// GetWorkOrder GET /workorders/:id.
func (h *WorkOrdersHandler) GetWorkOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	order, err := h.service.GetWorkOrder(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(order)})
}

// ListWorkOrders GET /workorders.
func (h *WorkOrdersHandler) ListWorkOrders(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := repository.WorkOrderFilter{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if v := c.Query("status"); v != "" {
		filter.Statuses = []domain.WorkOrderStatus{domain.WorkOrderStatus(v)}
	}
	if v := c.Query("priority"); v != "" {
		filter.Priorities = []domain.WorkOrderPriority{domain.WorkOrderPriority(v)}
	}
	if v := c.Query("property_id"); v != "" {
		filter.PropertyID = &v
	}
	orders, err := h.service.ListWorkOrders(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.WorkOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, workOrderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *WorkOrdersHandler) transition(c *fiber.Ctx, apply func(*domain.User, string) (*domain.WorkOrder, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	order, err := apply(principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(order)})
}

func workOrderResponse(order *domain.WorkOrder) dto.WorkOrderResponse {
	return dto.WorkOrderResponse{
		ID:            order.ID,
		PropertyID:    order.PropertyID,
		LeaseID:       order.LeaseID,
		RequestedBy:   order.RequestedBy,
		Title:         order.Title,
		Description:   order.Description,
		Category:      order.Category,
		Priority:      order.Priority,
		Status:        order.Status,
		AssignedTo:    order.AssignedTo,
		ApprovedBy:    order.ApprovedBy,
		ApprovedAt:    order.ApprovedAt,
		AssignedAt:    order.AssignedAt,
		StartedAt:     order.StartedAt,
		CompletedAt:   order.CompletedAt,
		EstimatedCost: dto.MoneyPtrFromDomain(order.EstimatedCost),
		ActualCost:    dto.MoneyPtrFromDomain(order.ActualCost),
		Notes:         order.Notes,
		Images:        order.Images,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
