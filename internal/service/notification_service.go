package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mwhayford/rental-service/internal/config"
	"github.com/mwhayford/rental-service/internal/events"
)

// NotificationService emits notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLeaseActivated, n.handleLeaseActivated)
	n.dispatcher.Subscribe(events.EventLeaseTerminated, n.handleLeaseTerminated)
	n.dispatcher.Subscribe(events.EventLeaseRenewed, n.handleLeaseRenewed)
	n.dispatcher.Subscribe(events.EventWorkOrderAssigned, n.handleWorkOrderAssigned)
	n.dispatcher.Subscribe(events.EventWorkOrderCompleted, n.handleWorkOrderCompleted)
	n.dispatcher.Subscribe(events.EventApplicationSubmitted, n.handleApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationApproved, n.handleApplicationDecided)
	n.dispatcher.Subscribe(events.EventApplicationRejected, n.handleApplicationDecided)
	n.dispatcher.Subscribe(events.EventPaymentFailed, n.handlePaymentFailed)
}

func (n *NotificationService) handleLeaseActivated(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaseActivated", zap.String("lease_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeaseTerminated(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaseTerminated", zap.String("lease_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeaseRenewed(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaseRenewed", zap.String("lease_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWorkOrderAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("WorkOrderAssigned", zap.String("work_order_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWorkOrderCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("WorkOrderCompleted", zap.String("work_order_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ApplicationSubmitted", zap.String("application_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleApplicationDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("ApplicationDecided",
		zap.String("application_id", event.AggregateID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePaymentFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("PaymentFailed", zap.String("payment_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}
