// internal/arena/memory.go
package arena

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// MemoryDirectory is an in-process Directory for tests and single-node runs.
// Claim is a mutex-guarded test-and-set with the same exclusivity contract
// as the redis implementation.
type MemoryDirectory struct {
	mu     sync.Mutex
	arenas map[uuid.UUID]*models.Arena
}

// NewMemoryDirectory returns an empty in-memory arena directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{arenas: make(map[uuid.UUID]*models.Arena)}
}

// Register adds or replaces an arena record.
func (d *MemoryDirectory) Register(arena models.Arena) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.arenas[arena.ID] = &arena
}

// Snapshot returns a copy of an arena record for assertions.
func (d *MemoryDirectory) Snapshot(id uuid.UUID) (models.Arena, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	arena, ok := d.arenas[id]
	if !ok {
		return models.Arena{}, false
	}
	return *arena, true
}

func (d *MemoryDirectory) FindAvailable(ctx context.Context, gameType models.GameType, minCapacity int) (*models.Arena, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(d.arenas))
	for id := range d.arenas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		arena := d.arenas[id]
		if arena.State != models.ArenaIdle || arena.GameRoomID != nil {
			continue
		}
		if arena.GameType != gameType || arena.Capacity < minCapacity {
			continue
		}
		dup := *arena
		return &dup, nil
	}
	return nil, nil
}

func (d *MemoryDirectory) Claim(ctx context.Context, arenaID, roomID uuid.UUID) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	arena, ok := d.arenas[arenaID]
	if !ok {
		return false, fmt.Errorf("arena %s not registered", arenaID)
	}
	if arena.GameRoomID != nil {
		return false, nil
	}
	id := roomID
	arena.GameRoomID = &id
	arena.State = models.ArenaReserved
	return true, nil
}

func (d *MemoryDirectory) Activate(ctx context.Context, arenaID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	arena, ok := d.arenas[arenaID]
	if !ok {
		return fmt.Errorf("arena %s not registered", arenaID)
	}
	arena.State = models.ArenaActive
	return nil
}

func (d *MemoryDirectory) Release(ctx context.Context, arenaID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	arena, ok := d.arenas[arenaID]
	if !ok {
		return fmt.Errorf("arena %s not registered", arenaID)
	}
	arena.GameRoomID = nil
	arena.State = models.ArenaIdle
	return nil
}

func (d *MemoryDirectory) HostServer(ctx context.Context, arenaID uuid.UUID) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	arena, ok := d.arenas[arenaID]
	if !ok || arena.ServerName == "" {
		return "", fmt.Errorf("arena %s has no host server", arenaID)
	}
	return arena.ServerName, nil
}
