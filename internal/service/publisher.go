package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
)

// eventSource is any aggregate that accumulates domain events.
type eventSource interface {
	PullEvents() []domain.Event
}

// publishEvents drains an aggregate's pending events and fans them out
// through the dispatcher. Call only after a successful save; events from
// an unsaved mutation must never reach subscribers.
func publishEvents(ctx context.Context, dispatcher events.Dispatcher, source eventSource, actorID string) {
	if dispatcher == nil {
		return
	}
	var actor *string
	if actorID != "" {
		actor = &actorID
	}
	for _, ev := range source.PullEvents() {
		envelope := events.FromDomain(ev, actor)
		envelope.ID = uuid.NewString()
		_ = dispatcher.Publish(ctx, envelope)
	}
}
