package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mwhayford/rental-service/internal/domain"
)

func TestDispatcherFanOut(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)
	var first, second []Event

	dispatcher.Subscribe(EventLeaseActivated, func(_ context.Context, ev Event) error {
		first = append(first, ev)
		return nil
	})
	dispatcher.Subscribe(EventLeaseActivated, func(_ context.Context, ev Event) error {
		second = append(second, ev)
		return nil
	})
	dispatcher.Subscribe(EventLeaseTerminated, func(_ context.Context, ev Event) error {
		t.Fatal("unexpected event type delivered")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		ID:          "ev-1",
		Type:        EventLeaseActivated,
		AggregateID: "lease-1",
	})
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "lease-1", first[0].AggregateID)
}

func TestDispatcherHandlerErrorsAreLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := NewInMemoryDispatcher(zap.New(core))
	delivered := false

	dispatcher.Subscribe(EventPaymentFailed, func(_ context.Context, _ Event) error {
		return errors.New("handler broke")
	})
	dispatcher.Subscribe(EventPaymentFailed, func(_ context.Context, _ Event) error {
		delivered = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventPaymentFailed, AggregateID: "pay-1"})
	require.NoError(t, err)
	assert.True(t, delivered)

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pay-1", entries[0].ContextMap()["aggregate_id"])
}

func TestFromDomain(t *testing.T) {
	occurred := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	actor := "user-1"

	envelope := FromDomain(domain.Event{
		Name:        "lease_activated",
		AggregateID: "lease-1",
		OccurredAt:  occurred,
		Payload:     map[string]any{"property_id": "prop-1"},
	}, &actor)

	assert.Equal(t, EventLeaseActivated, envelope.Type)
	assert.Equal(t, "lease-1", envelope.AggregateID)
	assert.Equal(t, occurred, envelope.Timestamp)
	require.NotNil(t, envelope.ActorID)
	assert.Equal(t, "user-1", *envelope.ActorID)
}
