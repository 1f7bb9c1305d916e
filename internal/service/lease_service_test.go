package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
)

type leaseFixture struct {
	service    *LeaseService
	leases     *fakeLeaseRepo
	properties *fakePropertyRepo
}

func newLeaseFixture(t *testing.T) *leaseFixture {
	t.Helper()
	f := &leaseFixture{
		leases:     newFakeLeaseRepo(),
		properties: newFakePropertyRepo(),
	}
	f.service = NewLeaseService(LeaseDependencies{
		LeaseRepo:    f.leases,
		PropertyRepo: f.properties,
		UserRepo:     newFakeUserRepo(resident),
		Dispatcher:   events.NewInMemoryDispatcher(nil),
	})
	return f
}

func (f *leaseFixture) addDraftLease(t *testing.T, propertyID string) *domain.Lease {
	t.Helper()
	now := time.Now()
	lease, err := domain.NewLease(domain.LeaseParams{
		PropertyID:        propertyID,
		TenantID:          resident.ID,
		LandlordID:        owner.ID,
		StartDate:         now.AddDate(0, 0, -1),
		EndDate:           now.AddDate(1, 0, 0),
		MonthlyRent:       domain.Money{Amount: 180000, Currency: "USD"},
		SecurityDeposit:   domain.Money{Amount: 180000, Currency: "USD"},
		PaymentDayOfMonth: 1,
	})
	require.NoError(t, err)
	lease.PullEvents()
	require.NoError(t, f.leases.Create(context.Background(), lease))
	return lease
}

func (f *leaseFixture) addProperty(t *testing.T) *domain.Property {
	t.Helper()
	property, err := domain.NewProperty(domain.PropertyParams{
		OwnerID:     owner.ID,
		Title:       "Maple Street Duplex",
		MonthlyRent: domain.Money{Amount: 180000, Currency: "USD"},
	})
	require.NoError(t, err)
	require.NoError(t, f.properties.Create(context.Background(), property))
	return property
}

func TestActivateLeaseTakesUnitOffMarket(t *testing.T) {
	f := newLeaseFixture(t)
	property := f.addProperty(t)
	lease := f.addDraftLease(t, property.ID)

	activated, err := f.service.ActivateLease(context.Background(), owner, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusActive, activated.Status)

	stored, err := f.properties.GetByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}

func TestTerminateLeasePutsUnitBackOnMarket(t *testing.T) {
	f := newLeaseFixture(t)
	property := f.addProperty(t)
	lease := f.addDraftLease(t, property.ID)
	_, err := f.service.ActivateLease(context.Background(), owner, lease.ID)
	require.NoError(t, err)

	terminated, err := f.service.TerminateLease(context.Background(), owner, lease.ID, "tenant moved out")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusTerminated, terminated.Status)

	stored, err := f.properties.GetByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAvailable)
}

func TestActivateLeaseSurvivesMissingProperty(t *testing.T) {
	// The availability toggle is best-effort when the property row is
	// gone; the lease transition itself must still commit.
	f := newLeaseFixture(t)
	lease := f.addDraftLease(t, "ghost-property")

	activated, err := f.service.ActivateLease(context.Background(), owner, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusActive, activated.Status)

	stored, err := f.leases.GetByID(context.Background(), lease.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusActive, stored.Status)
}

func TestActivateLeaseLandlordOnly(t *testing.T) {
	f := newLeaseFixture(t)
	property := f.addProperty(t)
	lease := f.addDraftLease(t, property.ID)

	_, err := f.service.ActivateLease(context.Background(), resident, lease.ID)
	require.Error(t, err)

	stored, err := f.leases.GetByID(context.Background(), lease.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusDraft, stored.Status)
}
