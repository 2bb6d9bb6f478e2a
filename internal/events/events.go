// Package events announces support-form activity to downstream consumers.
package events

import (
	"context"
	"time"
)

// Event types
const (
	ArbitrationCompleted = "arbitration.completed"
	SessionEscalated     = "session.escalated"
	TicketCreated        = "ticket.created"
)

// Event is one domain event. Key partitions the stream, usually by session.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"-"`
	SessionID  string    `json:"sessionId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// New stamps an event with the current time
func New(eventType, key string, data any) Event {
	return Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher sends events. Failures are reported but never change the
// result of the operation that emitted the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type discard struct{}

// Discard drops every event. Used when no broker is configured.
func Discard() Publisher { return discard{} }

func (discard) Publish(context.Context, Event) error { return nil }
func (discard) Close() error                         { return nil }
