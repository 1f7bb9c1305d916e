package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// SubscriptionStatus enumerates gateway-backed subscription states.
type SubscriptionStatus string

const (
	SubscriptionStatusIncomplete SubscriptionStatus = "INCOMPLETE"
	SubscriptionStatusTrialing   SubscriptionStatus = "TRIALING"
	SubscriptionStatusActive     SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue    SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled   SubscriptionStatus = "CANCELED"
	SubscriptionStatusUnpaid     SubscriptionStatus = "UNPAID"
	SubscriptionStatusPaused     SubscriptionStatus = "PAUSED"
)

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusIncomplete: {SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusCanceled},
	SubscriptionStatusTrialing:   {SubscriptionStatusActive, SubscriptionStatusPastDue, SubscriptionStatusCanceled, SubscriptionStatusPaused},
	SubscriptionStatusActive:     {SubscriptionStatusPastDue, SubscriptionStatusCanceled, SubscriptionStatusPaused},
	SubscriptionStatusPastDue:    {SubscriptionStatusActive, SubscriptionStatusUnpaid, SubscriptionStatusCanceled},
	SubscriptionStatusUnpaid:     {SubscriptionStatusActive, SubscriptionStatusCanceled},
	SubscriptionStatusPaused:     {SubscriptionStatusActive, SubscriptionStatusCanceled},
	SubscriptionStatusCanceled:   {},
}

// Subscription is a recurring billing record backed by the payment
// gateway (landlord plans, renter's insurance add-ons).
type Subscription struct {
	AggregateRoot

	ID                    string
	UserID                string
	PlanCode              string
	Amount                Money
	Status                SubscriptionStatus
	GatewaySubscriptionID string
	CurrentPeriodEnd      *time.Time
	CanceledAt            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewSubscription builds an Incomplete subscription record.
func NewSubscription(userID, planCode string, amount Money) (*Subscription, error) {
	if userID == "" || planCode == "" {
		return nil, apperrors.NewValidationError("user and plan are required", nil)
	}
	if amount.IsZero() {
		return nil, apperrors.NewValidationError("amount is required", nil)
	}
	return &Subscription{
		ID:       uuid.NewString(),
		UserID:   userID,
		PlanCode: planCode,
		Amount:   amount,
		Status:   SubscriptionStatusIncomplete,
	}, nil
}

// StartTrial moves the subscription into its trial period.
func (s *Subscription) StartTrial(periodEnd time.Time) error {
	if err := s.transition(SubscriptionStatusTrialing); err != nil {
		return err
	}
	s.CurrentPeriodEnd = &periodEnd
	return nil
}

// Activate marks the subscription as paying.
func (s *Subscription) Activate(periodEnd time.Time) error {
	if err := s.transition(SubscriptionStatusActive); err != nil {
		return err
	}
	s.CurrentPeriodEnd = &periodEnd
	return nil
}

// MarkPastDue flags a missed renewal payment.
func (s *Subscription) MarkPastDue() error {
	return s.transition(SubscriptionStatusPastDue)
}

// MarkUnpaid flags a subscription whose retries were exhausted.
func (s *Subscription) MarkUnpaid() error {
	return s.transition(SubscriptionStatusUnpaid)
}

// Pause suspends billing.
func (s *Subscription) Pause() error {
	return s.transition(SubscriptionStatusPaused)
}

// Cancel ends the subscription.
func (s *Subscription) Cancel(now time.Time) error {
	if err := s.transition(SubscriptionStatusCanceled); err != nil {
		return err
	}
	canceledAt := now
	s.CanceledAt = &canceledAt
	return nil
}

func (s *Subscription) transition(next SubscriptionStatus) error {
	for _, candidate := range subscriptionTransitions[s.Status] {
		if candidate == next {
			s.Status = next
			return nil
		}
	}
	return apperrors.NewInvalidState("subscription cannot move from " + string(s.Status) + " to " + string(next))
}
