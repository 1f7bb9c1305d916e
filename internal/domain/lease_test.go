package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

func validLeaseParams() LeaseParams {
	return LeaseParams{
		PropertyID:        "prop-1",
		TenantID:          "tenant-1",
		LandlordID:        "landlord-1",
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		MonthlyRent:       Money{Amount: 150000, Currency: "USD"},
		SecurityDeposit:   Money{Amount: 150000, Currency: "USD"},
		PaymentDayOfMonth: 1,
	}
}

func TestNewLease(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)

	assert.Equal(t, LeaseStatusDraft, lease.Status)
	assert.Equal(t, PaymentFrequencyMonthly, lease.PaymentFrequency)
	assert.Equal(t, 364, lease.GetDurationInDays())

	events := lease.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "lease_created", events[0].Name)
	assert.Empty(t, lease.PullEvents())
}

func TestNewLeaseValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*LeaseParams)
	}{
		{"missing property", func(p *LeaseParams) { p.PropertyID = "" }},
		{"end before start", func(p *LeaseParams) { p.EndDate = p.StartDate.AddDate(0, 0, -1) }},
		{"end equals start", func(p *LeaseParams) { p.EndDate = p.StartDate }},
		{"payment day zero", func(p *LeaseParams) { p.PaymentDayOfMonth = 0 }},
		{"payment day 29", func(p *LeaseParams) { p.PaymentDayOfMonth = 29 }},
		{"zero rent", func(p *LeaseParams) { p.MonthlyRent = Money{} }},
		{"zero deposit", func(p *LeaseParams) { p.SecurityDeposit = Money{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validLeaseParams()
			tc.mutate(&params)
			_, err := NewLease(params)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestLeaseActivate(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	lease.PullEvents()

	// 2024-12-15 is inside the 30-day window before 2025-01-01.
	now := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, lease.Activate(now))
	assert.Equal(t, LeaseStatusActive, lease.Status)
	require.NotNil(t, lease.ActivatedAt)
	assert.Equal(t, now, *lease.ActivatedAt)

	events := lease.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "lease_activated", events[0].Name)
}

func TestLeaseActivateTooEarly(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)

	now := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	err = lease.Activate(now)
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	assert.Equal(t, LeaseStatusDraft, lease.Status)
}

func TestLeaseActivateNotDraft(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, lease.Activate(now))

	err = lease.Activate(now)
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestLeaseTerminate(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, lease.Activate(now))
	lease.PullEvents()

	require.NoError(t, lease.Terminate("tenant moved out", now.AddDate(0, 3, 0)))
	assert.Equal(t, LeaseStatusTerminated, lease.Status)
	assert.Equal(t, "tenant moved out", lease.TerminationReason)
	require.NotNil(t, lease.TerminatedAt)

	events := lease.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "lease_terminated", events[0].Name)
}

func TestLeaseTerminateRequiresReason(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, lease.Activate(now))

	err = lease.Terminate("  ", now)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	assert.Equal(t, LeaseStatusActive, lease.Status)
}

func TestLeaseTerminateDraftFails(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)

	err = lease.Terminate("reason", time.Now())
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestLeaseMarkAsExpired(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	require.NoError(t, lease.Activate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, lease.MarkAsExpired())
	assert.Equal(t, LeaseStatusExpired, lease.Status)

	err = lease.MarkAsExpired()
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestLeaseRenew(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	require.NoError(t, lease.Activate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	lease.PullEvents()

	newRent := Money{Amount: 160000, Currency: "USD"}
	now := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	renewal, err := lease.Renew(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), &newRent, now)
	require.NoError(t, err)

	assert.Equal(t, LeaseStatusRenewed, lease.Status)
	assert.Equal(t, LeaseStatusDraft, renewal.Status)
	assert.Equal(t, lease.EndDate.AddDate(0, 0, 1), renewal.StartDate)
	assert.Equal(t, newRent, renewal.MonthlyRent)
	assert.Equal(t, lease.SecurityDeposit, renewal.SecurityDeposit)

	events := lease.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "lease_renewed", events[0].Name)
	assert.Equal(t, renewal.ID, events[0].Payload["renewal_lease_id"])
}

func TestLeaseRenewKeepsRentWhenNil(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	require.NoError(t, lease.Activate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	renewal, err := lease.Renew(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), nil,
		time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, lease.MonthlyRent, renewal.MonthlyRent)
}

func TestLeaseRenewBadEndDateFailsInAnyState(t *testing.T) {
	// The date check runs before the state check, so even a draft lease
	// reports the validation error.
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)

	_, err = lease.Renew(lease.EndDate, nil, time.Now())
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestLeaseRenewDraftFails(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)

	_, err = lease.Renew(lease.EndDate.AddDate(1, 0, 0), nil, time.Now())
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestLeaseRenewTooEarly(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	require.NoError(t, lease.Activate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	// More than 60 days before 2025-12-31.
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = lease.Renew(lease.EndDate.AddDate(1, 0, 0), nil, now)
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestLeaseRenewExpiredAllowed(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	require.NoError(t, lease.Activate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, lease.MarkAsExpired())

	_, err = lease.Renew(lease.EndDate.AddDate(1, 0, 0), nil,
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestLeaseUpdateRent(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	lease.PullEvents()

	require.NoError(t, lease.UpdateRent(Money{Amount: 170000, Currency: "USD"}))
	assert.Equal(t, int64(170000), lease.MonthlyRent.Amount)

	events := lease.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "lease_rent_updated", events[0].Name)

	err = lease.UpdateRent(Money{})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	require.NoError(t, lease.Activate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, lease.Terminate("sold", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	err = lease.UpdateRent(Money{Amount: 100, Currency: "USD"})
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestLeaseDerivedQueries(t *testing.T) {
	lease, err := NewLease(validLeaseParams())
	require.NoError(t, err)
	assert.False(t, lease.IsActive())
	assert.Zero(t, lease.GetRemainingDays(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, lease.Activate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, lease.IsActive())
	assert.False(t, lease.IsExpired(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, lease.IsExpired(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 183, lease.GetRemainingDays(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Zero(t, lease.GetRemainingDays(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}
