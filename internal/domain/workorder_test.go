package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

func newTestWorkOrder(t *testing.T) *WorkOrder {
	t.Helper()
	order, err := NewWorkOrder("prop-1", "lease-1", "tenant-1",
		"Leaky faucet", "Kitchen faucet drips constantly",
		WorkOrderCategoryPlumbing, WorkOrderPriorityHigh)
	require.NoError(t, err)
	order.PullEvents()
	return order
}

func TestNewWorkOrderDefaults(t *testing.T) {
	order, err := NewWorkOrder("prop-1", "lease-1", "tenant-1", "Broken light", "Hall light is out", "", "")
	require.NoError(t, err)
	assert.Equal(t, WorkOrderStatusRequested, order.Status)
	assert.Equal(t, WorkOrderCategoryGeneral, order.Category)
	assert.Equal(t, WorkOrderPriorityMedium, order.Priority)

	events := order.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "work_order_created", events[0].Name)
}

func TestNewWorkOrderValidation(t *testing.T) {
	_, err := NewWorkOrder("", "lease-1", "tenant-1", "t", "d", "", "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = NewWorkOrder("prop-1", "lease-1", "tenant-1", "  ", "d", "", "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestWorkOrderHappyPath(t *testing.T) {
	order := newTestWorkOrder(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, order.Approve("owner-1", now))
	assert.Equal(t, WorkOrderStatusApproved, order.Status)

	require.NoError(t, order.Assign("contractor-1", now.Add(time.Hour)))
	assert.Equal(t, WorkOrderStatusAssigned, order.Status)
	require.NotNil(t, order.AssignedTo)
	assert.Equal(t, "contractor-1", *order.AssignedTo)

	require.NoError(t, order.Start(now.Add(2*time.Hour)))
	assert.Equal(t, WorkOrderStatusInProgress, order.Status)

	cost := Money{Amount: 12500, Currency: "USD"}
	require.NoError(t, order.Complete(&cost, "replaced the washer", now.Add(3*time.Hour)))
	assert.Equal(t, WorkOrderStatusCompleted, order.Status)
	require.NotNil(t, order.ActualCost)
	assert.Equal(t, cost, *order.ActualCost)
	assert.Equal(t, "replaced the washer", order.Notes)

	names := make([]string, 0, 4)
	for _, ev := range order.PullEvents() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{
		"work_order_approved",
		"work_order_assigned",
		"work_order_started",
		"work_order_completed",
	}, names)
}

func TestWorkOrderTransitionsAreOrdered(t *testing.T) {
	order := newTestWorkOrder(t)
	now := time.Now()

	// Everything past approval is out of reach from Requested.
	assert.True(t, apperrors.IsCode(order.Assign("c-1", now), "INVALID_STATE"))
	assert.True(t, apperrors.IsCode(order.Start(now), "INVALID_STATE"))
	err := order.Complete(nil, "", now)
	require.Error(t, err)
	assert.Equal(t, "cannot complete a work order in its current state", err.Error())

	require.NoError(t, order.Approve("owner-1", now))
	assert.True(t, apperrors.IsCode(order.Approve("owner-1", now), "INVALID_STATE"))
	assert.True(t, apperrors.IsCode(order.Start(now), "INVALID_STATE"))

	require.NoError(t, order.Assign("c-1", now))
	assert.True(t, apperrors.IsCode(order.Assign("c-2", now), "INVALID_STATE"))

	require.NoError(t, order.Start(now))
	assert.True(t, apperrors.IsCode(order.Start(now), "INVALID_STATE"))
}

func TestWorkOrderReject(t *testing.T) {
	order := newTestWorkOrder(t)

	require.NoError(t, order.Reject("owner-1", "not our responsibility"))
	assert.Equal(t, WorkOrderStatusCancelled, order.Status)
	assert.Equal(t, "Rejected: not our responsibility", order.Notes)

	// Rejection is only valid from Requested.
	other := newTestWorkOrder(t)
	require.NoError(t, other.Approve("owner-1", time.Now()))
	assert.True(t, apperrors.IsCode(other.Reject("owner-1", "late"), "INVALID_STATE"))
}

func TestWorkOrderCancel(t *testing.T) {
	order := newTestWorkOrder(t)
	now := time.Now()
	require.NoError(t, order.Approve("owner-1", now))
	require.NoError(t, order.Cancel("tenant withdrew the request"))
	assert.Equal(t, WorkOrderStatusCancelled, order.Status)
	assert.Equal(t, "Cancelled: tenant withdrew the request", order.Notes)

	// Terminal states stay terminal.
	assert.True(t, apperrors.IsCode(order.Cancel("again"), "INVALID_STATE"))

	done := newTestWorkOrder(t)
	require.NoError(t, done.Approve("owner-1", now))
	require.NoError(t, done.Assign("c-1", now))
	require.NoError(t, done.Start(now))
	require.NoError(t, done.Complete(nil, "", now))
	assert.True(t, apperrors.IsCode(done.Cancel("too late"), "INVALID_STATE"))
}

func TestWorkOrderEstimatedCost(t *testing.T) {
	order := newTestWorkOrder(t)
	require.NoError(t, order.UpdateEstimatedCost(Money{Amount: 5000, Currency: "USD"}))
	require.NotNil(t, order.EstimatedCost)
	assert.Equal(t, int64(5000), order.EstimatedCost.Amount)

	err := order.UpdateEstimatedCost(Money{Amount: -1, Currency: "USD"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestWorkOrderImages(t *testing.T) {
	order := newTestWorkOrder(t)
	require.NoError(t, order.AddImage("https://cdn.example.com/a.jpg"))
	require.NoError(t, order.AddImage("https://cdn.example.com/b.jpg"))

	// Re-adding the same URL is a no-op.
	require.NoError(t, order.AddImage("https://cdn.example.com/a.jpg"))
	assert.Len(t, order.Images, 2)

	err := order.AddImage("  ")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	order.RemoveImage("https://cdn.example.com/a.jpg")
	assert.Equal(t, []string{"https://cdn.example.com/b.jpg"}, order.Images)

	order.RemoveImage("missing.jpg")
	assert.Len(t, order.Images, 1)
}
