package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// PaymentStatus enumerates gateway-backed payment states.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusProcessing        PaymentStatus = "PROCESSING"
	PaymentStatusSucceeded         PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed            PaymentStatus = "FAILED"
	PaymentStatusCancelled         PaymentStatus = "CANCELLED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// PaymentPurpose enumerates what a payment is for.
type PaymentPurpose string

const (
	PaymentPurposeApplicationFee  PaymentPurpose = "APPLICATION_FEE"
	PaymentPurposeRent            PaymentPurpose = "RENT"
	PaymentPurposeSecurityDeposit PaymentPurpose = "SECURITY_DEPOSIT"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:           {PaymentStatusProcessing, PaymentStatusCancelled, PaymentStatusFailed},
	PaymentStatusProcessing:        {PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusSucceeded:         {PaymentStatusRefunded, PaymentStatusPartiallyRefunded},
	PaymentStatusPartiallyRefunded: {PaymentStatusRefunded},
	PaymentStatusFailed:            {},
	PaymentStatusCancelled:         {},
	PaymentStatusRefunded:          {},
}

// Payment is a gateway-backed billing record. The gateway owns the real
// payment state machine; this record mirrors it with guarded transitions.
type Payment struct {
	AggregateRoot

	ID              string
	UserID          string
	Purpose         PaymentPurpose
	ReferenceID     string
	Amount          Money
	RefundedAmount  *Money
	Status          PaymentStatus
	GatewayIntentID string
	FailureReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPayment builds a Pending payment record.
func NewPayment(userID string, purpose PaymentPurpose, referenceID string, amount Money) (*Payment, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user is required", nil)
	}
	if amount.IsZero() {
		return nil, apperrors.NewValidationError("amount is required", nil)
	}
	return &Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Purpose:     purpose,
		ReferenceID: referenceID,
		Amount:      amount,
		Status:      PaymentStatusPending,
	}, nil
}

// AttachIntent records the gateway intent reference.
func (p *Payment) AttachIntent(intentID string) error {
	if intentID == "" {
		return apperrors.NewValidationError("intent id is required", nil)
	}
	p.GatewayIntentID = intentID
	return nil
}

// MarkProcessing moves the payment to Processing.
func (p *Payment) MarkProcessing() error {
	return p.transition(PaymentStatusProcessing)
}

// MarkSucceeded moves the payment to Succeeded.
func (p *Payment) MarkSucceeded() error {
	if err := p.transition(PaymentStatusSucceeded); err != nil {
		return err
	}
	p.record("payment_succeeded", p.ID, map[string]any{
		"purpose": p.Purpose,
		"amount":  p.Amount,
	})
	return nil
}

// MarkFailed moves the payment to Failed with the gateway's reason.
func (p *Payment) MarkFailed(reason string) error {
	if err := p.transition(PaymentStatusFailed); err != nil {
		return err
	}
	p.FailureReason = reason
	p.record("payment_failed", p.ID, map[string]any{"reason": reason})
	return nil
}

// Cancel aborts a payment that has not settled.
func (p *Payment) Cancel() error {
	return p.transition(PaymentStatusCancelled)
}

// Refund records a full or partial refund of a settled payment.
func (p *Payment) Refund(amount Money) error {
	if amount.Amount <= 0 || amount.Amount > p.Amount.Amount {
		return apperrors.NewValidationError("refund amount must be positive and not exceed the payment amount", nil)
	}
	target := PaymentStatusPartiallyRefunded
	if amount.Amount == p.Amount.Amount {
		target = PaymentStatusRefunded
	}
	if err := p.transition(target); err != nil {
		return err
	}
	p.RefundedAmount = &amount
	p.record("payment_refunded", p.ID, map[string]any{
		"refunded_amount": amount,
		"full":            target == PaymentStatusRefunded,
	})
	return nil
}

func (p *Payment) transition(next PaymentStatus) error {
	for _, candidate := range paymentTransitions[p.Status] {
		if candidate == next {
			p.Status = next
			return nil
		}
	}
	return apperrors.NewInvalidState("payment cannot move from " + string(p.Status) + " to " + string(next))
}
