package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// WorkOrderStatus enumerates lifecycle states for maintenance requests.
type WorkOrderStatus string

const (
	WorkOrderStatusRequested  WorkOrderStatus = "REQUESTED"
	WorkOrderStatusApproved   WorkOrderStatus = "APPROVED"
	WorkOrderStatusAssigned   WorkOrderStatus = "ASSIGNED"
	WorkOrderStatusInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderStatusCancelled  WorkOrderStatus = "CANCELLED"
)

// WorkOrderCategory enumerates maintenance categories.
type WorkOrderCategory string

const (
	WorkOrderCategoryPlumbing   WorkOrderCategory = "PLUMBING"
	WorkOrderCategoryElectrical WorkOrderCategory = "ELECTRICAL"
	WorkOrderCategoryHVAC       WorkOrderCategory = "HVAC"
	WorkOrderCategoryAppliance  WorkOrderCategory = "APPLIANCE"
	WorkOrderCategoryStructural WorkOrderCategory = "STRUCTURAL"
	WorkOrderCategoryGeneral    WorkOrderCategory = "GENERAL"
)

// WorkOrderPriority enumerates urgency.
type WorkOrderPriority string

const (
	WorkOrderPriorityLow       WorkOrderPriority = "LOW"
	WorkOrderPriorityMedium    WorkOrderPriority = "MEDIUM"
	WorkOrderPriorityHigh      WorkOrderPriority = "HIGH"
	WorkOrderPriorityEmergency WorkOrderPriority = "EMERGENCY"
)

// WorkOrder is the aggregate for a maintenance request on a leased unit.
type WorkOrder struct {
	AggregateRoot

	ID            string
	PropertyID    string
	LeaseID       string
	RequestedBy   string
	Title         string
	Description   string
	Category      WorkOrderCategory
	Priority      WorkOrderPriority
	Status        WorkOrderStatus
	AssignedTo    *string
	ApprovedBy    *string
	ApprovedAt    *time.Time
	AssignedAt    *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	EstimatedCost *Money
	ActualCost    *Money
	Notes         string
	Images        []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewWorkOrder validates input and returns a Requested work order.
func NewWorkOrder(propertyID, leaseID, requestedBy, title, description string, category WorkOrderCategory, priority WorkOrderPriority) (*WorkOrder, error) {
	if propertyID == "" || leaseID == "" || requestedBy == "" {
		return nil, apperrors.NewValidationError("property, lease and requester are required", nil)
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if category == "" {
		category = WorkOrderCategoryGeneral
	}
	if priority == "" {
		priority = WorkOrderPriorityMedium
	}

	order := &WorkOrder{
		ID:          uuid.NewString(),
		PropertyID:  propertyID,
		LeaseID:     leaseID,
		RequestedBy: requestedBy,
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      WorkOrderStatusRequested,
	}
	order.record("work_order_created", order.ID, map[string]any{
		"property_id":  order.PropertyID,
		"lease_id":     order.LeaseID,
		"requested_by": order.RequestedBy,
		"category":     order.Category,
		"priority":     order.Priority,
		"title":        order.Title,
	})
	return order, nil
}

// Approve moves a Requested order to Approved.
func (w *WorkOrder) Approve(approvedBy string, now time.Time) error {
	if w.Status != WorkOrderStatusRequested {
		return apperrors.NewInvalidState("only a requested work order can be approved")
	}
	if approvedBy == "" {
		return apperrors.NewValidationError("approver is required", nil)
	}
	approvedAt := now
	w.Status = WorkOrderStatusApproved
	w.ApprovedBy = &approvedBy
	w.ApprovedAt = &approvedAt
	w.record("work_order_approved", w.ID, map[string]any{
		"approved_by": approvedBy,
		"approved_at": approvedAt,
	})
	return nil
}

// Reject declines a Requested order. Rejection lands in the Cancelled
// state; the reason is kept in the notes.
func (w *WorkOrder) Reject(rejectedBy, reason string) error {
	if w.Status != WorkOrderStatusRequested {
		return apperrors.NewInvalidState("only a requested work order can be rejected")
	}
	if rejectedBy == "" {
		return apperrors.NewValidationError("rejector is required", nil)
	}
	w.Status = WorkOrderStatusCancelled
	if reason = strings.TrimSpace(reason); reason != "" {
		w.appendNote(fmt.Sprintf("Rejected: %s", reason))
	}
	w.record("work_order_rejected", w.ID, map[string]any{
		"rejected_by": rejectedBy,
		"reason":      reason,
	})
	return nil
}

// Assign hands an Approved order to a contractor.
func (w *WorkOrder) Assign(assignedTo string, now time.Time) error {
	if w.Status != WorkOrderStatusApproved {
		return apperrors.NewInvalidState("only an approved work order can be assigned")
	}
	if assignedTo == "" {
		return apperrors.NewValidationError("assignee is required", nil)
	}
	assignedAt := now
	w.Status = WorkOrderStatusAssigned
	w.AssignedTo = &assignedTo
	w.AssignedAt = &assignedAt
	w.record("work_order_assigned", w.ID, map[string]any{
		"assigned_to": assignedTo,
		"assigned_at": assignedAt,
	})
	return nil
}

// Start begins work on an Assigned order.
func (w *WorkOrder) Start(now time.Time) error {
	if w.Status != WorkOrderStatusAssigned || w.AssignedTo == nil {
		return apperrors.NewInvalidState("only an assigned work order can be started")
	}
	startedAt := now
	w.Status = WorkOrderStatusInProgress
	w.StartedAt = &startedAt
	w.record("work_order_started", w.ID, map[string]any{
		"assigned_to": *w.AssignedTo,
		"started_at":  startedAt,
	})
	return nil
}

// Complete finishes an InProgress order.
func (w *WorkOrder) Complete(actualCost *Money, notes string, now time.Time) error {
	if w.Status != WorkOrderStatusInProgress {
		return apperrors.NewInvalidState("cannot complete a work order in its current state")
	}
	completedAt := now
	w.Status = WorkOrderStatusCompleted
	w.CompletedAt = &completedAt
	if actualCost != nil {
		w.ActualCost = actualCost
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		w.appendNote(notes)
	}
	w.record("work_order_completed", w.ID, map[string]any{
		"completed_at": completedAt,
		"actual_cost":  w.ActualCost,
	})
	return nil
}

// Cancel aborts the order from any non-terminal state.
func (w *WorkOrder) Cancel(reason string) error {
	if w.Status == WorkOrderStatusCompleted || w.Status == WorkOrderStatusCancelled {
		return apperrors.NewInvalidState("work order is already in a terminal state")
	}
	w.Status = WorkOrderStatusCancelled
	if reason = strings.TrimSpace(reason); reason != "" {
		w.appendNote(fmt.Sprintf("Cancelled: %s", reason))
	}
	w.record("work_order_cancelled", w.ID, map[string]any{
		"reason": reason,
	})
	return nil
}

// UpdateEstimatedCost sets the pre-work cost estimate.
func (w *WorkOrder) UpdateEstimatedCost(cost Money) error {
	if cost.Amount < 0 {
		return apperrors.NewValidationError("estimated cost cannot be negative", nil)
	}
	w.EstimatedCost = &cost
	return nil
}

// AddImage appends an image URL; duplicates are ignored.
func (w *WorkOrder) AddImage(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return apperrors.NewValidationError("image url is required", nil)
	}
	for _, existing := range w.Images {
		if existing == url {
			return nil
		}
	}
	w.Images = append(w.Images, url)
	return nil
}

// RemoveImage removes an image URL if present.
func (w *WorkOrder) RemoveImage(url string) {
	for i, existing := range w.Images {
		if existing == url {
			w.Images = append(w.Images[:i], w.Images[i+1:]...)
			return
		}
	}
}

func (w *WorkOrder) appendNote(note string) {
	if w.Notes == "" {
		w.Notes = note
		return
	}
	w.Notes = w.Notes + "\n" + note
}
