package dto

import (
	"time"

	"github.com/mwhayford/rental-service/internal/domain"
)

// ConfirmPaymentRequest mirrors a gateway settlement callback.
type ConfirmPaymentRequest struct {
	IntentID string `json:"intent_id"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason"`
}

// RefundRequest payload.
type RefundRequest struct {
	Amount MoneyPayload `json:"amount"`
}

// PaymentResponse is the public shape of a payment record.
type PaymentResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	Purpose         domain.PaymentPurpose `json:"purpose"`
	ReferenceID     string                `json:"reference_id"`
	Amount          MoneyPayload          `json:"amount"`
	RefundedAmount  *MoneyPayload         `json:"refunded_amount,omitempty"`
	Status          domain.PaymentStatus  `json:"status"`
	GatewayIntentID string                `json:"gateway_intent_id,omitempty"`
	FailureReason   string                `json:"failure_reason,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// CreateSubscriptionRequest payload.
type CreateSubscriptionRequest struct {
	PlanCode   string       `json:"plan_code"`
	Amount     MoneyPayload `json:"amount"`
	TrialUntil *time.Time   `json:"trial_until"`
}

// SubscriptionResponse is the public shape of a subscription record.
type SubscriptionResponse struct {
	ID               string                    `json:"id"`
	UserID           string                    `json:"user_id"`
	PlanCode         string                    `json:"plan_code"`
	Amount           MoneyPayload              `json:"amount"`
	Status           domain.SubscriptionStatus `json:"status"`
	CurrentPeriodEnd *time.Time                `json:"current_period_end,omitempty"`
	CanceledAt       *time.Time                `json:"canceled_at,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}
