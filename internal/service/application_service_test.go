package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/jobs"
	"github.com/mwhayford/rental-service/internal/repository"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

type applicationFixture struct {
	service      *ApplicationService
	properties   *fakePropertyRepo
	applications *fakeApplicationRepo
	settings     *fakeSettingsRepo
	enqueuer     *fakeEnqueuer
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	f := &applicationFixture{
		properties:   newFakePropertyRepo(),
		applications: newFakeApplicationRepo(),
		settings:     &fakeSettingsRepo{},
		enqueuer:     &fakeEnqueuer{},
	}
	f.applications.properties = f.properties
	f.service = NewApplicationService(ApplicationDependencies{
		ApplicationRepo: f.applications,
		PropertyRepo:    f.properties,
		SettingsRepo:    f.settings,
		Dispatcher:      events.NewInMemoryDispatcher(nil),
		Enqueuer:        f.enqueuer,
		DefaultCurrency: "USD",
	})
	return f
}

func (f *applicationFixture) addListedProperty(t *testing.T, ownerID string, fee *domain.Money) *domain.Property {
	t.Helper()
	property, err := domain.NewProperty(domain.PropertyParams{
		OwnerID:        ownerID,
		Title:          "Maple Street Duplex",
		MonthlyRent:    domain.Money{Amount: 180000, Currency: "USD"},
		ApplicationFee: fee,
		MetroArea:      "Seattle",
	})
	require.NoError(t, err)
	require.NoError(t, property.List())
	property.PullEvents()
	require.NoError(t, f.properties.Create(context.Background(), property))
	return property
}

var (
	resident = &domain.User{ID: "resident-1", Role: domain.RoleResident}
	owner    = &domain.User{ID: "owner-1", Role: domain.RolePropertyOwner}
	admin    = &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
)

func TestCreateApplicationUsesPropertyFee(t *testing.T) {
	f := newApplicationFixture(t)
	fee := domain.Money{Amount: 5000, Currency: "USD"}
	property := f.addListedProperty(t, owner.ID, &fee)

	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, `{"income":90000}`)
	require.NoError(t, err)
	assert.Equal(t, fee, app.ApplicationFee)
	assert.Equal(t, resident.ID, app.ApplicantID)
}

func TestCreateApplicationUsesOrgDefaultFee(t *testing.T) {
	f := newApplicationFixture(t)
	f.settings.settings = &domain.ApplicationSettings{
		ID:                    "default",
		DefaultApplicationFee: &domain.Money{Amount: 2500, Currency: "EUR"},
	}
	property := f.addListedProperty(t, owner.ID, nil)

	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)
	assert.Equal(t, domain.Money{Amount: 2500, Currency: "EUR"}, app.ApplicationFee)
}

func TestCreateApplicationFallbackFee(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)

	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)
	assert.Equal(t, domain.Money{Amount: 3500, Currency: "USD"}, app.ApplicationFee)
}

func TestCreateApplicationFallbackUsesSettingsCurrency(t *testing.T) {
	f := newApplicationFixture(t)
	f.settings.settings = &domain.ApplicationSettings{ID: "default", DefaultCurrency: "GBP"}
	property := f.addListedProperty(t, owner.ID, nil)

	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)
	assert.Equal(t, domain.Money{Amount: 3500, Currency: "GBP"}, app.ApplicationFee)
}

func TestCreateApplicationRequiresListedProperty(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	property.IsListed = false
	require.NoError(t, f.properties.Update(context.Background(), property))

	_, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))

	_, err = f.service.CreateApplication(context.Background(), resident, "missing", "{}")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestSubmitApplicationQueuesEmail(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)

	submitted, err := f.service.SubmitApplication(context.Background(), resident, app.ID)
	require.NoError(t, err)
	require.NotNil(t, submitted.SubmittedAt)

	require.Len(t, f.enqueuer.jobs, 1)
	job := f.enqueuer.jobs[0]
	assert.Equal(t, jobs.JobApplicationSubmitted, job.Type)
	assert.Equal(t, "35.00 USD", job.Payload["fee"])
}

func TestSubmitApplicationOnlyApplicant(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)

	other := &domain.User{ID: "resident-2", Role: domain.RoleResident}
	_, err = f.service.SubmitApplication(context.Background(), other, app.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestApproveApplicationOwnerOnly(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)
	_, err = f.service.SubmitApplication(context.Background(), resident, app.ID)
	require.NoError(t, err)

	stranger := &domain.User{ID: "owner-2", Role: domain.RolePropertyOwner}
	_, err = f.service.ApproveApplication(context.Background(), stranger, app.ID, "")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	approved, err := f.service.ApproveApplication(context.Background(), owner, app.ID, "references checked")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, approved.Status)

	decided := f.enqueuer.jobs[len(f.enqueuer.jobs)-1]
	assert.Equal(t, jobs.JobApplicationDecided, decided.Type)
}

func TestRejectApplicationAsAdmin(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)
	_, err = f.service.SubmitApplication(context.Background(), resident, app.ID)
	require.NoError(t, err)

	rejected, err := f.service.RejectApplication(context.Background(), admin, app.ID, "incomplete history")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusRejected, rejected.Status)
	assert.Equal(t, "incomplete history", rejected.DecisionNotes)
}

func TestWithdrawApplication(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)
	_, err = f.service.SubmitApplication(context.Background(), resident, app.ID)
	require.NoError(t, err)

	withdrawn, err := f.service.WithdrawApplication(context.Background(), resident, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusWithdrawn, withdrawn.Status)
}

func TestGetApplicationVisibility(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)

	for _, actor := range []*domain.User{resident, owner, admin} {
		got, err := f.service.GetApplication(context.Background(), actor, app.ID)
		require.NoError(t, err)
		assert.Equal(t, app.ID, got.ID)
	}

	stranger := &domain.User{ID: "resident-2", Role: domain.RoleResident}
	_, err = f.service.GetApplication(context.Background(), stranger, app.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestListApplicationsScopesResidents(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	_, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)

	_, err = f.service.ListApplications(context.Background(), resident, repository.ApplicationFilter{})
	require.NoError(t, err)
	require.NotNil(t, f.applications.lastFilter.ApplicantID)
	assert.Equal(t, resident.ID, *f.applications.lastFilter.ApplicantID)

	// Only admins see the unscoped listing.
	_, err = f.service.ListApplications(context.Background(), admin, repository.ApplicationFilter{})
	require.NoError(t, err)
	assert.Nil(t, f.applications.lastFilter.ApplicantID)
	assert.Nil(t, f.applications.lastFilter.PropertyOwnerID)
}

func TestListApplicationsScopesOwners(t *testing.T) {
	f := newApplicationFixture(t)
	property := f.addListedProperty(t, owner.ID, nil)
	app, err := f.service.CreateApplication(context.Background(), resident, property.ID, "{}")
	require.NoError(t, err)

	mine, err := f.service.ListApplications(context.Background(), owner, repository.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].ID)

	// An unrelated owner never sees applications on someone else's
	// properties.
	other := &domain.User{ID: "owner-2", Role: domain.RolePropertyOwner}
	theirs, err := f.service.ListApplications(context.Background(), other, repository.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
