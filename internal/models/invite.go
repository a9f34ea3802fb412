// internal/models/invite.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a pending offer for TargetID to join the room RoomID.
// The room reference is weak: when the room is deleted, invites pointing at
// it become invalid and are purged lazily on the next listing.
type Invite struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	TargetID  uuid.UUID `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}
