// internal/database/memory.go
package database

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// MemoryRoomStore is a mutex-guarded in-memory room store. Used by tests and
// by single-node runs that do not need shared persistence. Insertion order
// is tracked so listing behaves like the postgres store.
type MemoryRoomStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*models.GameRoom
	order []uuid.UUID
}

// NewMemoryRoomStore returns an empty in-memory room store.
func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{rooms: make(map[uuid.UUID]*models.GameRoom)}
}

func (s *MemoryRoomStore) Create(ctx context.Context, room *models.GameRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = copyRoom(room)
	s.order = append(s.order, room.ID)
	return nil
}

func (s *MemoryRoomStore) Get(ctx context.Context, id uuid.UUID) (*models.GameRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return copyRoom(room), nil
}

func (s *MemoryRoomStore) Save(ctx context.Context, room *models.GameRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		s.order = append(s.order, room.ID)
	}
	s.rooms[room.ID] = copyRoom(room)
	return nil
}

func (s *MemoryRoomStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryRoomStore) ListPublicAvailable(ctx context.Context) ([]models.GameRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.GameRoom
	for _, id := range s.order {
		room, ok := s.rooms[id]
		if !ok {
			continue
		}
		if !room.Private && room.ArenaID == nil {
			list = append(list, *copyRoom(room))
		}
	}
	return list, nil
}

func copyRoom(room *models.GameRoom) *models.GameRoom {
	dup := *room
	dup.MemberIDs = append([]uuid.UUID(nil), room.MemberIDs...)
	if room.ArenaID != nil {
		arenaID := *room.ArenaID
		dup.ArenaID = &arenaID
	}
	return &dup
}

// MemoryInviteStore is the in-memory counterpart of PostgresInviteStore.
type MemoryInviteStore struct {
	mu      sync.Mutex
	invites map[uuid.UUID]*models.Invite
	order   []uuid.UUID
}

// NewMemoryInviteStore returns an empty in-memory invite store.
func NewMemoryInviteStore() *MemoryInviteStore {
	return &MemoryInviteStore{invites: make(map[uuid.UUID]*models.Invite)}
}

func (s *MemoryInviteStore) Create(ctx context.Context, invite *models.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invites {
		if inv.RoomID == invite.RoomID && inv.TargetID == invite.TargetID {
			// Matches ON CONFLICT DO NOTHING in the postgres store.
			return nil
		}
	}
	dup := *invite
	s.invites[invite.ID] = &dup
	s.order = append(s.order, invite.ID)
	return nil
}

func (s *MemoryInviteStore) Get(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invite, ok := s.invites[id]
	if !ok {
		return nil, nil
	}
	dup := *invite
	return &dup, nil
}

func (s *MemoryInviteStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	return nil
}

func (s *MemoryInviteStore) ListByTarget(ctx context.Context, userID uuid.UUID) ([]models.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Invite
	for _, id := range s.order {
		invite, ok := s.invites[id]
		if ok && invite.TargetID == userID {
			list = append(list, *invite)
		}
	}
	return list, nil
}

func (s *MemoryInviteStore) ExistsFor(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, invite := range s.invites {
		if invite.RoomID == roomID && invite.TargetID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryInviteStore) DeleteByRoom(ctx context.Context, roomID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stale []uuid.UUID
	for id, invite := range s.invites {
		if invite.RoomID == roomID {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		s.removeLocked(id)
	}
	return nil
}

func (s *MemoryInviteStore) removeLocked(id uuid.UUID) {
	delete(s.invites, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
