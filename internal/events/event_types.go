package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostCreated EventType = "post_created"
	EventPostUpdated EventType = "post_updated"
	EventPostDeleted EventType = "post_deleted"
)

// Actor identifies the principal that caused an event.
type Actor struct {
	Subject string      `json:"subject"`
	Role    domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	PostID    int64     `json:"post_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, postID int64, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PostID:    postID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	Slug   string            `json:"slug"`
	Status domain.PostStatus `json:"status"`
}

// PostUpdatedPayload lists the fields that changed.
type PostUpdatedPayload struct {
	Fields []string `json:"fields"`
}
