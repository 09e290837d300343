// Package notify publishes registration events for downstream follow-up
// (confirmation e-mails, roster links, organizer alerts).
package notify

import (
	"context"
	"time"
)

// Event types.
const (
	GymRegistered      = "gym.registered"
	VendorRegistered   = "vendor.registered"
	GymRequested       = "gym.requested"
	ParticipantCreated = "participant.created"
)

// Event is one published message. ID is the record id and doubles as the
// message key.
type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType, id string, payload any) Event {
	return Event{Type: eventType, ID: id, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }
