// internal/models/room.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// GameRoom represents a pre-game lobby grouping players who intend to play
// together. The owner is fixed at creation and is always a member; the room
// is deleted when the owner leaves.
type GameRoom struct {
	ID       uuid.UUID `json:"id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	GameType GameType  `json:"game_type"`
	Private  bool      `json:"private"`

	// MemberIDs holds everyone currently in the room, owner included.
	// Insertion order is kept stable for display slotting.
	MemberIDs []uuid.UUID `json:"member_ids"`

	// ArenaID is set exactly once, when the room is launched onto an arena.
	// A room with a non-nil ArenaID is "in progress".
	ArenaID *uuid.UUID `json:"arena_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether userID is currently in the room.
func (r *GameRoom) HasMember(userID uuid.UUID) bool {
	for _, id := range r.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddMember appends userID if not already present.
func (r *GameRoom) AddMember(userID uuid.UUID) {
	if !r.HasMember(userID) {
		r.MemberIDs = append(r.MemberIDs, userID)
	}
}

// RemoveMember removes userID, preserving the order of the remaining members.
func (r *GameRoom) RemoveMember(userID uuid.UUID) {
	out := r.MemberIDs[:0]
	for _, id := range r.MemberIDs {
		if id != userID {
			out = append(out, id)
		}
	}
	r.MemberIDs = out
}

// InProgress reports whether the room has been launched onto an arena.
func (r *GameRoom) InProgress() bool {
	return r.ArenaID != nil
}
