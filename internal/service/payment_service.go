package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/repository"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// feeAttacher links a settled fee payment back to its application.
type feeAttacher interface {
	AttachFeePayment(ctx context.Context, applicationID, paymentID string) error
}

// PaymentService mirrors the gateway's charge lifecycle onto local
// payment and subscription records.
type PaymentService struct {
	payments      repository.PaymentRepository
	subscriptions repository.SubscriptionRepository
	applications  feeAttacher
	gateway       PaymentGateway
	dispatcher    events.Dispatcher
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	PaymentRepo      repository.PaymentRepository
	SubscriptionRepo repository.SubscriptionRepository
	Applications     feeAttacher
	Gateway          PaymentGateway
	Dispatcher       events.Dispatcher
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	return &PaymentService{
		payments:      deps.PaymentRepo,
		subscriptions: deps.SubscriptionRepo,
		applications:  deps.Applications,
		gateway:       deps.Gateway,
		dispatcher:    deps.Dispatcher,
	}
}

// FeeIntentResult carries the local record and the gateway handle the
// client needs to confirm the charge.
type FeeIntentResult struct {
	Payment      *domain.Payment
	ClientSecret string
}

// CreateIntent opens a pending payment and its gateway intent.
func (s *PaymentService) CreateIntent(ctx context.Context, actor *domain.User, purpose domain.PaymentPurpose, referenceID string, amount domain.Money) (*FeeIntentResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	payment, err := domain.NewPayment(actor.ID, purpose, referenceID, amount)
	if err != nil {
		return nil, err
	}
	intent, err := s.gateway.CreateIntent(ctx, PaymentIntentRequest{
		Amount:      amount,
		UserID:      actor.ID,
		Purpose:     purpose,
		ReferenceID: referenceID,
	})
	if err != nil {
		return nil, err
	}
	if err := payment.AttachIntent(intent.ID); err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return &FeeIntentResult{Payment: payment, ClientSecret: intent.ClientSecret}, nil
}

// ConfirmPayment settles the payment matching a gateway intent. Invoked
// from the gateway callback; application fees are linked back to their
// application on success.
func (s *PaymentService) ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error) {
	payment, err := s.getByIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentStatusPending {
		if err := payment.MarkProcessing(); err != nil {
			return nil, err
		}
	}
	if err := payment.MarkSucceeded(); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, payment, "")
	if payment.Purpose == domain.PaymentPurposeApplicationFee && s.applications != nil {
		if err := s.applications.AttachFeePayment(ctx, payment.ReferenceID, payment.ID); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

// FailPayment records a gateway decline.
func (s *PaymentService) FailPayment(ctx context.Context, intentID, reason string) (*domain.Payment, error) {
	payment, err := s.getByIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentStatusPending {
		if err := payment.MarkProcessing(); err != nil {
			return nil, err
		}
	}
	if err := payment.MarkFailed(reason); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, payment, "")
	return payment, nil
}

// CancelPayment aborts an unsettled payment.
func (s *PaymentService) CancelPayment(ctx context.Context, actor *domain.User, paymentID string) (*domain.Payment, error) {
	payment, err := s.getOwnedPayment(ctx, actor, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.GatewayIntentID != "" {
		if err := s.gateway.CancelIntent(ctx, payment.GatewayIntentID); err != nil {
			return nil, err
		}
	}
	if err := payment.Cancel(); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// RefundPayment pushes a refund through the gateway and mirrors it
// locally. Admin only.
func (s *PaymentService) RefundPayment(ctx context.Context, actor *domain.User, paymentID string, amount domain.Money) (*domain.Payment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("only admins can issue refunds")
	}
	payment, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.gateway.RefundIntent(ctx, payment.GatewayIntentID, amount); err != nil {
		return nil, err
	}
	if err := payment.Refund(amount); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, payment, actor.ID)
	return payment, nil
}

// GetPayment fetches a payment visible to the actor.
func (s *PaymentService) GetPayment(ctx context.Context, actor *domain.User, paymentID string) (*domain.Payment, error) {
	return s.getOwnedPayment(ctx, actor, paymentID)
}

// ListPayments returns the actor's payment history.
func (s *PaymentService) ListPayments(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Payment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.payments.ListByUser(ctx, actor.ID, limit, offset)
}

// CreateSubscription opens a recurring billing record for the actor.
func (s *PaymentService) CreateSubscription(ctx context.Context, actor *domain.User, planCode string, amount domain.Money, trialUntil *time.Time) (*domain.Subscription, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	sub, err := domain.NewSubscription(actor.ID, planCode, amount)
	if err != nil {
		return nil, err
	}
	intent, err := s.gateway.CreateIntent(ctx, PaymentIntentRequest{
		Amount:      amount,
		UserID:      actor.ID,
		Purpose:     domain.PaymentPurposeRent,
		ReferenceID: sub.ID,
	})
	if err != nil {
		return nil, err
	}
	sub.GatewaySubscriptionID = "sub_" + intent.ID
	if trialUntil != nil {
		if err := sub.StartTrial(*trialUntil); err != nil {
			return nil, err
		}
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ActivateSubscription marks the subscription as paying through the
// given period end.
func (s *PaymentService) ActivateSubscription(ctx context.Context, actor *domain.User, subscriptionID string, periodEnd time.Time) (*domain.Subscription, error) {
	return s.transitionSubscription(ctx, actor, subscriptionID, func(sub *domain.Subscription) error {
		return sub.Activate(periodEnd)
	})
}

// PauseSubscription suspends billing.
func (s *PaymentService) PauseSubscription(ctx context.Context, actor *domain.User, subscriptionID string) (*domain.Subscription, error) {
	return s.transitionSubscription(ctx, actor, subscriptionID, func(sub *domain.Subscription) error {
		return sub.Pause()
	})
}

// CancelSubscription ends the subscription.
func (s *PaymentService) CancelSubscription(ctx context.Context, actor *domain.User, subscriptionID string) (*domain.Subscription, error) {
	return s.transitionSubscription(ctx, actor, subscriptionID, func(sub *domain.Subscription) error {
		return sub.Cancel(time.Now())
	})
}

// MarkSubscriptionPastDue flags a missed renewal. Gateway callback path.
func (s *PaymentService) MarkSubscriptionPastDue(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	return s.transitionSubscription(ctx, nil, subscriptionID, func(sub *domain.Subscription) error {
		return sub.MarkPastDue()
	})
}

// MarkSubscriptionUnpaid flags exhausted retries. Gateway callback path.
func (s *PaymentService) MarkSubscriptionUnpaid(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	return s.transitionSubscription(ctx, nil, subscriptionID, func(sub *domain.Subscription) error {
		return sub.MarkUnpaid()
	})
}

// ListSubscriptions returns the actor's subscriptions.
func (s *PaymentService) ListSubscriptions(ctx context.Context, actor *domain.User) ([]domain.Subscription, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.subscriptions.ListByUser(ctx, actor.ID)
}

// transitionSubscription applies a guarded state change. A nil actor is
// the gateway callback path and bypasses the ownership check.
func (s *PaymentService) transitionSubscription(ctx context.Context, actor *domain.User, subscriptionID string, apply func(*domain.Subscription) error) (*domain.Subscription, error) {
	sub, err := s.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subscription", map[string]any{"subscription_id": subscriptionID})
		}
		return nil, err
	}
	if actor != nil && actor.Role != domain.RoleAdmin && sub.UserID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	if err := apply(sub); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *PaymentService) getPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("payment", map[string]any{"payment_id": paymentID})
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) getByIntent(ctx context.Context, intentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("payment", map[string]any{"intent_id": intentID})
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) getOwnedPayment(ctx context.Context, actor *domain.User, paymentID string) (*domain.Payment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	payment, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && payment.UserID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return payment, nil
}
