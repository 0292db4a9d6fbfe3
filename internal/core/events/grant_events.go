package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeGrantsAssigned = "grants.assigned"
	EventTypeGrantsUpdated  = "grants.updated"
	EventTypeGrantsRevoked  = "grants.revoked"
)

// GrantsChangedEvent is published after any mutation of a user's permission
// grants. Permissions lists the permission names the operation touched.
type GrantsChangedEvent struct {
	BaseEvent
	UserID      int64    `json:"user_id"`
	Permissions []string `json:"permissions"`
	ActorID     *int64   `json:"actor_id,omitempty"`
}

func newGrantsChangedEvent(eventType string, userID int64, permissions []string, actorID *int64) *GrantsChangedEvent {
	return &GrantsChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":     userID,
				"permissions": permissions,
			},
		},
		UserID:      userID,
		Permissions: permissions,
		ActorID:     actorID,
	}
}

func NewGrantsAssignedEvent(userID int64, permissions []string, actorID *int64) *GrantsChangedEvent {
	return newGrantsChangedEvent(EventTypeGrantsAssigned, userID, permissions, actorID)
}

func NewGrantsUpdatedEvent(userID int64, permissions []string, actorID *int64) *GrantsChangedEvent {
	return newGrantsChangedEvent(EventTypeGrantsUpdated, userID, permissions, actorID)
}

func NewGrantsRevokedEvent(userID int64, permissions []string, actorID *int64) *GrantsChangedEvent {
	return newGrantsChangedEvent(EventTypeGrantsRevoked, userID, permissions, actorID)
}
