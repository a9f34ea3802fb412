// internal/matchmaking/coordinator.go

// Package matchmaking launches game rooms onto arenas: it finds a
// compatible arena, claims it exclusively, activates it, and relocates every
// online room member to the arena's host server.
package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/minemaniauk/gamerooms/internal/arena"
	"github.com/minemaniauk/gamerooms/internal/models"
	"github.com/minemaniauk/gamerooms/internal/proxy"
	"github.com/minemaniauk/gamerooms/internal/rooms"
)

// LaunchState labels the phases of one launch attempt, for log fields.
type LaunchState string

const (
	StateSearching  LaunchState = "searching"
	StateClaimed    LaunchState = "claimed"
	StateActivated  LaunchState = "activated"
	StateRelocating LaunchState = "relocating"
	StateDone       LaunchState = "done"
	StateNoArena    LaunchState = "no_arena"
)

// LaunchResult summarizes a successful launch.
type LaunchResult struct {
	ArenaID    uuid.UUID `json:"arena_id"`
	ServerName string    `json:"server_name"`
	Relocated  int       `json:"relocated"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
}

// Coordinator drives the launch state machine. The arena claim is the only
// step that needs true mutual exclusion; everything downstream is undone
// best-effort if a later step fails, leaving the room joinable again.
type Coordinator struct {
	roomSvc   *rooms.RoomService
	roomStore rooms.RoomStore
	arenas    arena.Directory
	dir       proxy.Directory
	relocator *Relocator
	logger    *logrus.Logger

	// MaxRelocateAttempts is the per-member retry budget.
	MaxRelocateAttempts int
}

// NewCoordinator wires a Coordinator.
func NewCoordinator(roomSvc *rooms.RoomService, roomStore rooms.RoomStore, arenas arena.Directory, dir proxy.Directory, relocator *Relocator, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		roomSvc:             roomSvc,
		roomStore:           roomStore,
		arenas:              arenas,
		dir:                 dir,
		relocator:           relocator,
		logger:              logger,
		MaxRelocateAttempts: DefaultRelocateAttempts,
	}
}

// Launch finds, claims and activates an arena for the room, then moves every
// online member to the arena's host server. Owner only. A room that already
// has an arena assignment cannot be relaunched.
func (c *Coordinator) Launch(ctx context.Context, roomID, requester uuid.UUID) (*LaunchResult, error) {
	room, err := c.roomSvc.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := rooms.RequireOwner(room, requester); err != nil {
		return nil, err
	}
	if room.InProgress() {
		return nil, rooms.ErrRoomInProgress
	}

	log := c.logger.WithFields(logrus.Fields{"room_id": roomID, "game_type": room.GameType})
	log.WithField("state", StateSearching).Info("searching for an arena")

	found, err := c.arenas.FindAvailable(ctx, room.GameType, len(room.MemberIDs))
	if err != nil {
		return nil, fmt.Errorf("find arena: %w", err)
	}
	if found == nil {
		log.WithField("state", StateNoArena).Info("no arena available")
		return nil, rooms.ErrNoArenaAvailable
	}

	// Write the room onto the arena before activating it, so a second room
	// racing for the same arena loses at the claim instead of after launch.
	claimed, err := c.arenas.Claim(ctx, found.ID, roomID)
	if err != nil {
		return nil, fmt.Errorf("claim arena %s: %w", found.ID, err)
	}
	if !claimed {
		log.WithFields(logrus.Fields{"state": StateNoArena, "arena_id": found.ID}).Info("arena claimed by another room")
		return nil, rooms.ErrNoArenaAvailable
	}
	log = log.WithField("arena_id", found.ID)
	log.WithField("state", StateClaimed).Info("arena claimed")

	arenaID := found.ID
	room.ArenaID = &arenaID
	if err := c.roomStore.Save(ctx, room); err != nil {
		c.release(ctx, arenaID)
		return nil, fmt.Errorf("persist arena assignment: %w", err)
	}

	if err := c.arenas.Activate(ctx, arenaID); err != nil {
		c.abort(ctx, room, arenaID)
		return nil, fmt.Errorf("activate arena %s: %w", arenaID, err)
	}
	log.WithField("state", StateActivated).Info("arena activated")

	serverName, err := c.arenas.HostServer(ctx, arenaID)
	if err != nil {
		// Fatal configuration error: an active arena must have a host.
		c.abort(ctx, room, arenaID)
		return nil, fmt.Errorf("%w: %v", rooms.ErrServerNotFound, err)
	}

	log.WithFields(logrus.Fields{"state": StateRelocating, "server": serverName}).Info("relocating members")
	result := &LaunchResult{ArenaID: arenaID, ServerName: serverName}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, memberID := range room.MemberIDs {
		memberID := memberID
		g.Go(func() error {
			online, err := c.dir.IsUserOnline(gctx, memberID)
			if err != nil {
				c.logger.WithError(err).WithField("user_id", memberID).Warn("online check failed, skipping member")
				online = false
			}
			if !online {
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return nil
			}
			if err := c.relocator.Relocate(gctx, memberID, serverName, c.MaxRelocateAttempts); err != nil {
				if !errors.Is(err, rooms.ErrRelocationFailed) {
					c.logger.WithError(err).WithField("user_id", memberID).Warn("relocation error")
				}
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.Relocated++
			mu.Unlock()
			return nil
		})
	}
	// Member goroutines never return errors; failures are aggregated.
	_ = g.Wait()

	log.WithFields(logrus.Fields{
		"state":     StateDone,
		"relocated": result.Relocated,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
	}).Info("room launched")
	return result, nil
}

// abort undoes a claim whose launch failed partway: the claim is released
// best-effort and the room's assignment is cleared so it stays joinable.
func (c *Coordinator) abort(ctx context.Context, room *models.GameRoom, arenaID uuid.UUID) {
	c.release(ctx, arenaID)
	room.ArenaID = nil
	if err := c.roomStore.Save(ctx, room); err != nil {
		c.logger.WithError(err).WithField("room_id", room.ID).Error("failed to clear arena assignment")
	}
}

// release drops an arena claim, logging rather than escalating failure.
func (c *Coordinator) release(ctx context.Context, arenaID uuid.UUID) {
	if err := c.arenas.Release(ctx, arenaID); err != nil {
		c.logger.WithError(err).WithField("arena_id", arenaID).Error("failed to release arena claim")
	}
}
