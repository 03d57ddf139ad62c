// Package events publishes domain events (sign-ups, new notes) to a topic
// exchange. Delivery is best effort: callers log publish failures and carry on.
package events

import (
	"context"
	"time"
)

// Routing keys.
const (
	KeyUserSignedUp = "user.signed_up"
	KeyNoteCreated  = "note.created"
)

// Publisher sends v, encoded as JSON, under routing key key.
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// UserSignedUp never carries the password or its hash.
type UserSignedUp struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NoteCreated carries metadata only, never the note body.
type NoteCreated struct {
	NoteID     string    `json:"noteId"`
	OwnerID    string    `json:"ownerId"`
	Visibility string    `json:"visibility"`
	Type       string    `json:"type,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }
