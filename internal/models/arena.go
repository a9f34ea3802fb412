// internal/models/arena.go
package models

import "github.com/google/uuid"

// ArenaState is the availability state of an arena.
type ArenaState string

const (
	ArenaIdle     ArenaState = "idle"
	ArenaReserved ArenaState = "reserved"
	ArenaActive   ArenaState = "active"
)

// Arena is a reusable, capacity-bounded game instance hosted on a specific
// backend server. Arena records are owned by the arena directory; this
// service only reserves and activates them through its interface.
type Arena struct {
	ID         uuid.UUID  `json:"id"`
	GameType   GameType   `json:"game_type"`
	Capacity   int        `json:"capacity"`
	State      ArenaState `json:"state"`
	ServerName string     `json:"server_name"`

	// GameRoomID is the back-reference written at claim time.
	GameRoomID *uuid.UUID `json:"game_room_id,omitempty"`
}
