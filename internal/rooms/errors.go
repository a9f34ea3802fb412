// internal/rooms/errors.go
package rooms

import "errors"

var (
	// ErrRoomNotFound indicates the requested room does not exist (or no
	// longer exists).
	ErrRoomNotFound = errors.New("room not found")

	// ErrInviteNotFound indicates the requested invite does not exist.
	ErrInviteNotFound = errors.New("invite not found")

	// ErrNotOwner indicates an owner-only action was attempted by a user who
	// does not own the room.
	ErrNotOwner = errors.New("user is not the room owner")

	// ErrRoomInProgress indicates a join was attempted on a room that has
	// already been launched onto an arena.
	ErrRoomInProgress = errors.New("room is already in progress")

	// ErrNoArenaAvailable indicates no idle arena matched the room's game
	// type and member count. Terminal for the launch attempt; the room stays
	// joinable.
	ErrNoArenaAvailable = errors.New("no available arena")

	// ErrRelocationFailed indicates a member could not be moved to the
	// destination server within the attempts budget. Per-member, non-fatal
	// to the launch as a whole.
	ErrRelocationFailed = errors.New("relocation failed")

	// ErrServerNotFound indicates the arena's host server could not be
	// resolved. This is a configuration error, not retried.
	ErrServerNotFound = errors.New("server not found")
)
