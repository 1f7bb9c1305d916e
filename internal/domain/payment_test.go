package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

func newTestPayment(t *testing.T) *Payment {
	t.Helper()
	payment, err := NewPayment("user-1", PaymentPurposeApplicationFee, "app-1",
		Money{Amount: 3500, Currency: "USD"})
	require.NoError(t, err)
	return payment
}

func TestPaymentLifecycle(t *testing.T) {
	payment := newTestPayment(t)
	assert.Equal(t, PaymentStatusPending, payment.Status)

	require.NoError(t, payment.AttachIntent("pi_123"))
	require.NoError(t, payment.MarkProcessing())
	require.NoError(t, payment.MarkSucceeded())
	assert.Equal(t, PaymentStatusSucceeded, payment.Status)

	events := payment.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "payment_succeeded", events[0].Name)
}

func TestPaymentInvalidTransitions(t *testing.T) {
	payment := newTestPayment(t)

	// Cannot settle straight from Pending.
	assert.True(t, apperrors.IsCode(payment.MarkSucceeded(), "INVALID_STATE"))

	require.NoError(t, payment.MarkProcessing())
	require.NoError(t, payment.MarkFailed("card declined"))
	assert.Equal(t, "card declined", payment.FailureReason)

	// Failed is terminal.
	assert.True(t, apperrors.IsCode(payment.MarkProcessing(), "INVALID_STATE"))
	assert.True(t, apperrors.IsCode(payment.Cancel(), "INVALID_STATE"))
}

func TestPaymentRefund(t *testing.T) {
	payment := newTestPayment(t)
	require.NoError(t, payment.MarkProcessing())
	require.NoError(t, payment.MarkSucceeded())
	payment.PullEvents()

	require.NoError(t, payment.Refund(Money{Amount: 1000, Currency: "USD"}))
	assert.Equal(t, PaymentStatusPartiallyRefunded, payment.Status)

	require.NoError(t, payment.Refund(Money{Amount: 3500, Currency: "USD"}))
	assert.Equal(t, PaymentStatusRefunded, payment.Status)

	// Refunded is terminal.
	err := payment.Refund(Money{Amount: 1, Currency: "USD"})
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestPaymentRefundValidation(t *testing.T) {
	payment := newTestPayment(t)
	require.NoError(t, payment.MarkProcessing())
	require.NoError(t, payment.MarkSucceeded())

	err := payment.Refund(Money{Amount: 9999, Currency: "USD"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	err = payment.Refund(Money{Amount: 0, Currency: "USD"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestSubscriptionLifecycle(t *testing.T) {
	sub, err := NewSubscription("user-1", "landlord-pro", Money{Amount: 2900, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, SubscriptionStatusIncomplete, sub.Status)

	trialEnd := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sub.StartTrial(trialEnd))
	assert.Equal(t, SubscriptionStatusTrialing, sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd)

	periodEnd := trialEnd.AddDate(0, 1, 0)
	require.NoError(t, sub.Activate(periodEnd))
	assert.Equal(t, SubscriptionStatusActive, sub.Status)

	require.NoError(t, sub.MarkPastDue())
	require.NoError(t, sub.MarkUnpaid())
	require.NoError(t, sub.Activate(periodEnd.AddDate(0, 1, 0)))

	now := time.Now()
	require.NoError(t, sub.Cancel(now))
	assert.Equal(t, SubscriptionStatusCanceled, sub.Status)
	require.NotNil(t, sub.CanceledAt)

	// Canceled is terminal.
	assert.True(t, apperrors.IsCode(sub.Activate(periodEnd), "INVALID_STATE"))
}

func TestSubscriptionPauseResume(t *testing.T) {
	sub, err := NewSubscription("user-1", "landlord-pro", Money{Amount: 2900, Currency: "USD"})
	require.NoError(t, err)
	require.NoError(t, sub.Activate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, sub.Pause())
	assert.Equal(t, SubscriptionStatusPaused, sub.Status)

	require.NoError(t, sub.Activate(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SubscriptionStatusActive, sub.Status)

	// A paused subscription cannot go past due.
	require.NoError(t, sub.Pause())
	assert.True(t, apperrors.IsCode(sub.MarkPastDue(), "INVALID_STATE"))
}
