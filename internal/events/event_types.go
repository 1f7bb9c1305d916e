package events

import (
	"time"

	"github.com/mwhayford/rental-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeaseCreated     EventType = "lease_created"
	EventLeaseActivated   EventType = "lease_activated"
	EventLeaseTerminated  EventType = "lease_terminated"
	EventLeaseExpired     EventType = "lease_expired"
	EventLeaseRenewed     EventType = "lease_renewed"
	EventLeaseRentUpdated EventType = "lease_rent_updated"

	EventWorkOrderCreated   EventType = "work_order_created"
	EventWorkOrderApproved  EventType = "work_order_approved"
	EventWorkOrderRejected  EventType = "work_order_rejected"
	EventWorkOrderAssigned  EventType = "work_order_assigned"
	EventWorkOrderStarted   EventType = "work_order_started"
	EventWorkOrderCompleted EventType = "work_order_completed"
	EventWorkOrderCancelled EventType = "work_order_cancelled"

	EventApplicationSubmitted EventType = "property_application_submitted"
	EventApplicationApproved  EventType = "property_application_approved"
	EventApplicationRejected  EventType = "property_application_rejected"
	EventApplicationWithdrawn EventType = "property_application_withdrawn"

	EventPropertyListed   EventType = "property_listed"
	EventPropertyUnlisted EventType = "property_unlisted"

	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
	EventPaymentRefunded  EventType = "payment_refunded"
)

// All returns every event type the service emits, for subscribers that
// want the full stream.
func All() []EventType {
	return []EventType{
		EventLeaseCreated, EventLeaseActivated, EventLeaseTerminated,
		EventLeaseExpired, EventLeaseRenewed, EventLeaseRentUpdated,
		EventWorkOrderCreated, EventWorkOrderApproved, EventWorkOrderRejected,
		EventWorkOrderAssigned, EventWorkOrderStarted, EventWorkOrderCompleted,
		EventWorkOrderCancelled,
		EventApplicationSubmitted, EventApplicationApproved,
		EventApplicationRejected, EventApplicationWithdrawn,
		EventPropertyListed, EventPropertyUnlisted,
		EventPaymentSucceeded, EventPaymentFailed, EventPaymentRefunded,
	}
}

// Event is the envelope published to subscribers.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	ActorID     *string     `json:"actor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// FromDomain wraps a drained aggregate event into a publishable envelope.
func FromDomain(ev domain.Event, actorID *string) Event {
	return Event{
		Type:        EventType(ev.Name),
		AggregateID: ev.AggregateID,
		ActorID:     actorID,
		Timestamp:   ev.OccurredAt,
		Payload:     ev.Payload,
	}
}
