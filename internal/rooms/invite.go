// internal/rooms/invite.go
package rooms

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// InviteService owns creation, deduplication, acceptance and decline of
// invites tied to a room and a target player.
type InviteService struct {
	rooms   RoomStore
	invites InviteStore
	roomSvc *RoomService
	logger  *logrus.Logger
}

// NewInviteService builds an InviteService. Accepting an invite joins the
// room through roomSvc so the join policy is applied uniformly.
func NewInviteService(roomStore RoomStore, inviteStore InviteStore, roomSvc *RoomService, logger *logrus.Logger) *InviteService {
	return &InviteService{
		rooms:   roomStore,
		invites: inviteStore,
		roomSvc: roomSvc,
		logger:  logger,
	}
}

// Invite creates an invite from the room owner to target. Inviting someone
// who already holds a live invite for the room is idempotent: it succeeds
// and returns nil without creating a duplicate.
func (s *InviteService) Invite(ctx context.Context, roomID, inviter, target uuid.UUID) (*models.Invite, error) {
	room, err := s.roomSvc.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(room, inviter); err != nil {
		return nil, err
	}

	exists, err := s.invites.ExistsFor(ctx, roomID, target)
	if err != nil {
		return nil, fmt.Errorf("check existing invite: %w", err)
	}
	if exists {
		s.logger.WithFields(logrus.Fields{"room_id": roomID, "target_id": target}).Debug("invite already exists")
		return nil, nil
	}

	invite := &models.Invite{
		ID:        uuid.New(),
		RoomID:    roomID,
		TargetID:  target,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("persist invite: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"invite_id": invite.ID,
		"room_id":   roomID,
		"target_id": target,
	}).Info("invite created")
	return invite, nil
}

// ListForUser returns every live invite targeting user. Invites whose room
// no longer exists are filtered out and opportunistically deleted instead of
// being returned.
func (s *InviteService) ListForUser(ctx context.Context, user uuid.UUID) ([]models.Invite, error) {
	all, err := s.invites.ListByTarget(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	live := make([]models.Invite, 0, len(all))
	for _, inv := range all {
		room, err := s.rooms.Get(ctx, inv.RoomID)
		if err != nil {
			return nil, fmt.Errorf("load room %s for invite %s: %w", inv.RoomID, inv.ID, err)
		}
		if room == nil {
			// Dangling invite: the room is gone, purge lazily.
			if err := s.invites.Delete(ctx, inv.ID); err != nil {
				s.logger.WithError(err).WithField("invite_id", inv.ID).Warn("failed to purge dangling invite")
			}
			continue
		}
		live = append(live, inv)
	}
	return live, nil
}

// Accept deletes the invite and then joins the room on the user's behalf.
// The deletion always happens; if the room was concurrently deleted the join
// reports ErrRoomNotFound but the invite is still gone.
func (s *InviteService) Accept(ctx context.Context, inviteID, user uuid.UUID) error {
	invite, err := s.invites.Get(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("load invite %s: %w", inviteID, err)
	}
	if invite == nil || invite.TargetID != user {
		return ErrInviteNotFound
	}

	if err := s.invites.Delete(ctx, inviteID); err != nil {
		return fmt.Errorf("delete invite %s: %w", inviteID, err)
	}

	if err := s.roomSvc.Join(ctx, invite.RoomID, user); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"invite_id": inviteID,
			"room_id":   invite.RoomID,
			"user_id":   user,
		}).Warn("invite accepted but join failed")
		return err
	}
	s.logger.WithFields(logrus.Fields{"invite_id": inviteID, "user_id": user}).Info("invite accepted")
	return nil
}

// Decline deletes the invite unconditionally.
func (s *InviteService) Decline(ctx context.Context, inviteID uuid.UUID) error {
	invite, err := s.invites.Get(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("load invite %s: %w", inviteID, err)
	}
	if invite == nil {
		return ErrInviteNotFound
	}
	if err := s.invites.Delete(ctx, inviteID); err != nil {
		return fmt.Errorf("delete invite %s: %w", inviteID, err)
	}
	s.logger.WithField("invite_id", inviteID).Info("invite declined")
	return nil
}
