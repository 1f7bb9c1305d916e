package dto

import (
	"time"

	"github.com/mwhayford/rental-service/internal/domain"
)

// CreateWorkOrderRequest payload.
type CreateWorkOrderRequest struct {
	LeaseID     string                   `json:"lease_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.WorkOrderCategory `json:"category"`
	Priority    domain.WorkOrderPriority `json:"priority"`
}

// RejectWorkOrderRequest payload.
type RejectWorkOrderRequest struct {
	Reason string `json:"reason"`
}

// AssignWorkOrderRequest payload.
type AssignWorkOrderRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// CompleteWorkOrderRequest payload.
type CompleteWorkOrderRequest struct {
	ActualCost *MoneyPayload `json:"actual_cost"`
	Notes      string        `json:"notes"`
}

// CancelWorkOrderRequest payload.
type CancelWorkOrderRequest struct {
	Reason string `json:"reason"`
}

// EstimatedCostRequest payload.
type EstimatedCostRequest struct {
	EstimatedCost MoneyPayload `json:"estimated_cost"`
}

// WorkOrderResponse is the public shape of a work order.
type WorkOrderResponse struct {
	ID            string                   `json:"id"`
	PropertyID    string                   `json:"property_id"`
	LeaseID       string                   `json:"lease_id"`
	RequestedBy   string                   `json:"requested_by"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      domain.WorkOrderCategory `json:"category"`
	Priority      domain.WorkOrderPriority `json:"priority"`
	Status        domain.WorkOrderStatus   `json:"status"`
	AssignedTo    *string                  `json:"assigned_to,omitempty"`
	ApprovedBy    *string                  `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time               `json:"approved_at,omitempty"`
	AssignedAt    *time.Time               `json:"assigned_at,omitempty"`
	StartedAt     *time.Time               `json:"started_at,omitempty"`
	CompletedAt   *time.Time               `json:"completed_at,omitempty"`
	EstimatedCost *MoneyPayload            `json:"estimated_cost,omitempty"`
	ActualCost    *MoneyPayload            `json:"actual_cost,omitempty"`
	Notes         string                   `json:"notes,omitempty"`
	Images        []string                 `json:"images"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}
