package domain

import "time"

// Event is a fact recorded by an aggregate while mutating. Events stay
// in memory on the aggregate until infrastructure drains them after a
// successful save; they are never persisted themselves.
type Event struct {
	Name        string
	AggregateID string
	OccurredAt  time.Time
	Payload     map[string]any
}

// AggregateRoot carries the pending event list and the optimistic
// concurrency version shared by all aggregates. Version is the value
// loaded from storage; repositories compare it on update and bump it
// on success.
type AggregateRoot struct {
	Version int64

	pending []Event
}

func (a *AggregateRoot) record(name, aggregateID string, payload map[string]any) {
	a.pending = append(a.pending, Event{
		Name:        name,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	})
}

// PullEvents drains and returns pending events in emission order.
func (a *AggregateRoot) PullEvents() []Event {
	drained := a.pending
	a.pending = nil
	return drained
}

// PendingEvents returns pending events without draining them.
func (a *AggregateRoot) PendingEvents() []Event {
	return a.pending
}
