package models

import (
	"time"

	"github.com/google/uuid"
)

// ModerationEvent is broadcast over Redis pub/sub to connected admin
// dashboards whenever an item changes status table.
type ModerationEvent struct {
	Type        string    `json:"type"` // submitted, approved, rejected, resubmitted, deleted
	ContentType string    `json:"content_type"`
	ContentID   uuid.UUID `json:"content_id"`
	Title       string    `json:"title"`
	ActorID     uuid.UUID `json:"actor_id"`
	At          time.Time `json:"at"`
}
