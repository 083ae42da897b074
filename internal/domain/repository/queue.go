package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EngagementEventType enumerates the event kinds published on the queue.
type EngagementEventType string

const (
	EventLiked          EngagementEventType = "liked"
	EventUnliked        EngagementEventType = "unliked"
	EventSubscribed     EngagementEventType = "subscribed"
	EventUnsubscribed   EngagementEventType = "unsubscribed"
	EventVideoPublished EngagementEventType = "video_published"
)

// EngagementEvent is emitted after a successful toggle or video publish.
// ChannelID is the channel whose activity feed the event belongs to.
type EngagementEvent struct {
	Type       EngagementEventType `json:"type"`
	ActorID    uuid.UUID           `json:"actor_id"`
	ChannelID  uuid.UUID           `json:"channel_id"`
	TargetKind string              `json:"target_kind,omitempty"`
	TargetID   uuid.UUID           `json:"target_id"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// EventQueue defines the interface for the engagement event queue.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type EventQueue interface {
	// PublishEngagementEvent sends an event to the queue.
	// Used by the API server; publish failures must not fail the originating
	// write, callers log and continue.
	PublishEngagementEvent(ctx context.Context, event EngagementEvent) error

	// ConsumeEngagementEvents starts consuming events from the queue.
	// The handler function is called for each received event.
	// Returns when the context is cancelled or the channel closes.
	// Used by the worker service.
	ConsumeEngagementEvents(ctx context.Context, handler func(event EngagementEvent) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
