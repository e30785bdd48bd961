// Package pubsub is a small generic fan-out bus: one publisher side, many
// independent subscriber channels, each with its own buffer so a slow
// reader never holds up the others. It backs the daemon's two event
// streams: log tailing (Broker[string]) and scheduler broadcasts
// (BroadcastBroker, a Broker[model.Broadcast] with typed publish helpers).
package pubsub

import (
	"context"
	"time"
)

// EventType distinguishes why an event was published, independent of its
// payload's own structure.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event pairs a typed payload with the reason it was published and when.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out a subscription channel, closed when ctx ends.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts new events for a Subscriber's channels to receive.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
