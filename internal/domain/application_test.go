package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

func newTestApplication(t *testing.T) *PropertyApplication {
	t.Helper()
	app, err := NewPropertyApplication("prop-1", "tenant-1",
		`{"employment":"full-time"}`, Money{Amount: 3500, Currency: "USD"})
	require.NoError(t, err)
	return app
}

func TestNewPropertyApplication(t *testing.T) {
	app := newTestApplication(t)
	assert.Equal(t, ApplicationStatusPending, app.Status)
	assert.Nil(t, app.SubmittedAt)

	_, err := NewPropertyApplication("", "tenant-1", "data", Money{Amount: 1, Currency: "USD"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = NewPropertyApplication("prop-1", "tenant-1", " ", Money{Amount: 1, Currency: "USD"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = NewPropertyApplication("prop-1", "tenant-1", "data", Money{})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestApplicationSubmit(t *testing.T) {
	app := newTestApplication(t)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, app.Submit(now))
	require.NotNil(t, app.SubmittedAt)
	assert.Equal(t, now, *app.SubmittedAt)

	events := app.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "property_application_submitted", events[0].Name)
	assert.Equal(t, int64(3500), events[0].Payload["fee_amount"])
	assert.Equal(t, "USD", events[0].Payload["fee_currency"])

	// Submitting twice fails.
	err := app.Submit(now.Add(time.Hour))
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestApplicationReviewRequiresSubmission(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now()

	assert.True(t, apperrors.IsCode(app.Review("owner-1", now), "INVALID_STATE"))
	assert.True(t, apperrors.IsCode(app.Approve("owner-1", "", now), "INVALID_STATE"))
	assert.True(t, apperrors.IsCode(app.Reject("owner-1", "", now), "INVALID_STATE"))
}

func TestApplicationApprove(t *testing.T) {
	app := newTestApplication(t)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, app.Submit(now))
	require.NoError(t, app.Review("owner-1", now.Add(time.Hour)))
	assert.Equal(t, ApplicationStatusUnderReview, app.Status)
	app.PullEvents()

	require.NoError(t, app.Approve("owner-1", "looks good", now.Add(2*time.Hour)))
	assert.Equal(t, ApplicationStatusApproved, app.Status)
	assert.Equal(t, "looks good", app.DecisionNotes)
	require.NotNil(t, app.ReviewedBy)
	assert.Equal(t, "owner-1", *app.ReviewedBy)

	events := app.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "property_application_approved", events[0].Name)
}

func TestApplicationReject(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now()
	require.NoError(t, app.Submit(now))

	require.NoError(t, app.Reject("owner-1", "income too low", now))
	assert.Equal(t, ApplicationStatusRejected, app.Status)
	assert.Equal(t, "income too low", app.DecisionNotes)
}

func TestApplicationWithdraw(t *testing.T) {
	app := newTestApplication(t)
	require.NoError(t, app.Submit(time.Now()))
	require.NoError(t, app.Withdraw())
	assert.Equal(t, ApplicationStatusWithdrawn, app.Status)

	assert.True(t, apperrors.IsCode(app.Withdraw(), "INVALID_STATE"))

	// Withdrawn applications are no longer reviewable.
	assert.True(t, apperrors.IsCode(app.Review("owner-1", time.Now()), "INVALID_STATE"))
}

func TestApplicationWithdrawApprovedFails(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now()
	require.NoError(t, app.Submit(now))
	require.NoError(t, app.Approve("owner-1", "", now))

	assert.True(t, apperrors.IsCode(app.Withdraw(), "INVALID_STATE"))
}

func TestApplicationAttachPayment(t *testing.T) {
	app := newTestApplication(t)
	require.NoError(t, app.AttachPayment("pay-1"))
	require.NotNil(t, app.ApplicationFeePaymentID)
	assert.Equal(t, "pay-1", *app.ApplicationFeePaymentID)

	err := app.AttachPayment("")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}
