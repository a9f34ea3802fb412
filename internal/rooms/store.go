// internal/rooms/store.go
package rooms

import (
	"context"

	"github.com/google/uuid"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// RoomStore persists GameRoom records. Implementations must treat Get on a
// missing id as (nil, nil), not an error; callers translate that into
// ErrRoomNotFound where it matters.
type RoomStore interface {
	Create(ctx context.Context, room *models.GameRoom) error
	Get(ctx context.Context, id uuid.UUID) (*models.GameRoom, error)
	Save(ctx context.Context, room *models.GameRoom) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListPublicAvailable returns rooms with private=false and no arena
	// assignment, in stable insertion order. A fresh query every call.
	ListPublicAvailable(ctx context.Context) ([]models.GameRoom, error)
}

// InviteStore persists Invite records. Get on a missing id is (nil, nil).
type InviteStore interface {
	Create(ctx context.Context, invite *models.Invite) error
	Get(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTarget(ctx context.Context, userID uuid.UUID) ([]models.Invite, error)
	ExistsFor(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	DeleteByRoom(ctx context.Context, roomID uuid.UUID) error
}
