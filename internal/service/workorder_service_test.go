package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/repository"
)

func TestListWorkOrdersScopesByRole(t *testing.T) {
	orders := newFakeWorkOrderRepo()
	svc := NewWorkOrderService(WorkOrderDependencies{
		WorkOrderRepo: orders,
		LeaseRepo:     newFakeLeaseRepo(),
		PropertyRepo:  newFakePropertyRepo(),
		UserRepo:      newFakeUserRepo(),
		Dispatcher:    events.NewInMemoryDispatcher(nil),
	})
	ctx := context.Background()

	// Admins see the unscoped listing.
	_, err := svc.ListWorkOrders(ctx, admin, repository.WorkOrderFilter{})
	require.NoError(t, err)
	assert.Nil(t, orders.lastFilter.PropertyOwnerID)
	assert.Nil(t, orders.lastFilter.RequestedBy)
	assert.Nil(t, orders.lastFilter.AssignedTo)

	// Owners are scoped to orders on their own properties.
	_, err = svc.ListWorkOrders(ctx, owner, repository.WorkOrderFilter{})
	require.NoError(t, err)
	require.NotNil(t, orders.lastFilter.PropertyOwnerID)
	assert.Equal(t, owner.ID, *orders.lastFilter.PropertyOwnerID)

	// Contractors see their assignments, residents their own requests.
	contractor := &domain.User{ID: "contractor-1", Role: domain.RoleContractor}
	_, err = svc.ListWorkOrders(ctx, contractor, repository.WorkOrderFilter{})
	require.NoError(t, err)
	require.NotNil(t, orders.lastFilter.AssignedTo)
	assert.Equal(t, contractor.ID, *orders.lastFilter.AssignedTo)

	_, err = svc.ListWorkOrders(ctx, resident, repository.WorkOrderFilter{})
	require.NoError(t, err)
	require.NotNil(t, orders.lastFilter.RequestedBy)
	assert.Equal(t, resident.ID, *orders.lastFilter.RequestedBy)
}
