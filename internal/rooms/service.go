// internal/rooms/service.go
package rooms

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// Config holds room policy knobs.
type Config struct {
	// AllowJoinInProgress permits joining a room after it has launched.
	// Off by default: a launched room rejects joins with ErrRoomInProgress.
	AllowJoinInProgress bool
}

// RoomService owns creation, membership mutation, visibility toggling and
// destruction of game rooms. All mutations are read-modify-write against the
// store; last writer wins, which is acceptable because membership is
// re-synced on the next refresh tick.
type RoomService struct {
	rooms   RoomStore
	invites InviteStore
	logger  *logrus.Logger
	cfg     Config
}

// NewRoomService builds a RoomService with explicit collaborators.
func NewRoomService(roomStore RoomStore, inviteStore InviteStore, logger *logrus.Logger, cfg Config) *RoomService {
	return &RoomService{
		rooms:   roomStore,
		invites: inviteStore,
		logger:  logger,
		cfg:     cfg,
	}
}

// RequireOwner is the single authorization predicate applied before every
// owner-only mutation (privacy toggle, invite, launch, room deletion).
func RequireOwner(room *models.GameRoom, requester uuid.UUID) error {
	if room.OwnerID != requester {
		return ErrNotOwner
	}
	return nil
}

// Create allocates a new room owned by owner, with the owner as its only
// member, and persists it.
func (s *RoomService) Create(ctx context.Context, owner uuid.UUID, gameType models.GameType, private bool) (*models.GameRoom, error) {
	room := &models.GameRoom{
		ID:        uuid.New(),
		OwnerID:   owner,
		GameType:  gameType,
		Private:   private,
		MemberIDs: []uuid.UUID{owner},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("persist room: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"room_id":   room.ID,
		"owner_id":  owner,
		"game_type": gameType,
		"private":   private,
	}).Info("room created")
	return room, nil
}

// Get fetches a room or returns ErrRoomNotFound.
func (s *RoomService) Get(ctx context.Context, roomID uuid.UUID) (*models.GameRoom, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Join adds user to the room's members. Joining a room you are already in is
// a no-op success. A launched room rejects joins unless the policy flag
// allows them.
func (s *RoomService) Join(ctx context.Context, roomID, user uuid.UUID) error {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if room.HasMember(user) {
		return nil
	}
	if room.InProgress() && !s.cfg.AllowJoinInProgress {
		return ErrRoomInProgress
	}
	room.AddMember(user)
	if err := s.rooms.Save(ctx, room); err != nil {
		return fmt.Errorf("persist join: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"room_id": roomID, "user_id": user}).Info("user joined room")
	return nil
}

// Leave removes user from the room. If the user is the owner the entire room
// is deleted along with every invite referencing it, regardless of remaining
// members. A room emptied by a non-owner leave is deleted as well.
func (s *RoomService) Leave(ctx context.Context, roomID, user uuid.UUID) error {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID == user {
		return s.deleteRoom(ctx, room)
	}

	room.RemoveMember(user)
	if len(room.MemberIDs) == 0 {
		return s.deleteRoom(ctx, room)
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return fmt.Errorf("persist leave: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"room_id": roomID, "user_id": user}).Info("user left room")
	return nil
}

// deleteRoom removes the room and its invites. Invite deletion failures are
// logged, not escalated: dangling invites are invalid anyway and get purged
// lazily on the next listing.
func (s *RoomService) deleteRoom(ctx context.Context, room *models.GameRoom) error {
	if err := s.invites.DeleteByRoom(ctx, room.ID); err != nil {
		s.logger.WithError(err).WithField("room_id", room.ID).Warn("failed to delete room invites")
	}
	if err := s.rooms.Delete(ctx, room.ID); err != nil {
		return fmt.Errorf("delete room %s: %w", room.ID, err)
	}
	s.logger.WithField("room_id", room.ID).Info("room deleted")
	return nil
}

// SetPrivacy toggles the room's visibility. Owner only. Observers polling
// the room pick the change up on their next refresh tick; there is no push.
func (s *RoomService) SetPrivacy(ctx context.Context, roomID, requester uuid.UUID, private bool) error {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := RequireOwner(room, requester); err != nil {
		return err
	}
	room.Private = private
	if err := s.rooms.Save(ctx, room); err != nil {
		return fmt.Errorf("persist privacy: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"room_id": roomID, "private": private}).Info("room privacy updated")
	return nil
}

// ListPublicAvailable returns every public room that has not launched yet.
func (s *RoomService) ListPublicAvailable(ctx context.Context) ([]models.GameRoom, error) {
	list, err := s.rooms.ListPublicAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public rooms: %w", err)
	}
	return list, nil
}
