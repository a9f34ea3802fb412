// internal/arena/directory.go
package arena

import (
	"context"

	"github.com/google/uuid"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// Directory is the query-and-reserve surface over arenas. Arena records are
// owned by the game servers that register them; this service only reads
// them, claims one for a room, and flips it active.
//
// Claim must be atomic and exclusive: of any number of concurrent claims on
// one idle arena, exactly one returns true. It is the single point of true
// mutual exclusion in the launch path.
type Directory interface {
	// FindAvailable returns the first idle arena for gameType with capacity
	// of at least minCapacity, or nil when none matches. First-found wins;
	// there is no scoring among candidates.
	FindAvailable(ctx context.Context, gameType models.GameType, minCapacity int) (*models.Arena, error)

	// Claim writes roomID onto the arena's assignment field. Returns false
	// when the arena was already claimed by another room.
	Claim(ctx context.Context, arenaID, roomID uuid.UUID) (bool, error)

	// Activate transitions a claimed arena to running.
	Activate(ctx context.Context, arenaID uuid.UUID) error

	// Release clears the claim, returning the arena to idle. Used to undo a
	// claim whose activation failed.
	Release(ctx context.Context, arenaID uuid.UUID) error

	// HostServer resolves the name of the backend server hosting the arena.
	HostServer(ctx context.Context, arenaID uuid.UUID) (string, error)
}
