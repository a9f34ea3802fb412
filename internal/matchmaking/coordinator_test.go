// internal/matchmaking/coordinator_test.go
package matchmaking_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minemaniauk/gamerooms/internal/arena"
	"github.com/minemaniauk/gamerooms/internal/database"
	"github.com/minemaniauk/gamerooms/internal/matchmaking"
	"github.com/minemaniauk/gamerooms/internal/models"
	"github.com/minemaniauk/gamerooms/internal/proxy"
	"github.com/minemaniauk/gamerooms/internal/rooms"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fixture struct {
	roomSvc     *rooms.RoomService
	inviteSvc   *rooms.InviteService
	roomStore   *database.MemoryRoomStore
	arenaDir    *arena.MemoryDirectory
	proxyFake   *proxy.MemoryProxy
	coordinator *matchmaking.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := testLogger()
	roomStore := database.NewMemoryRoomStore()
	inviteStore := database.NewMemoryInviteStore()
	roomSvc := rooms.NewRoomService(roomStore, inviteStore, logger, rooms.Config{})
	inviteSvc := rooms.NewInviteService(roomStore, inviteStore, roomSvc, logger)

	arenaDir := arena.NewMemoryDirectory()
	proxyFake := proxy.NewMemoryProxy()
	// Default behavior: a connect request lands the player immediately.
	proxyFake.OnConnect = func(userID uuid.UUID, serverName string) {
		proxyFake.SetCurrentServerLocked(userID, serverName)
	}

	relocator := matchmaking.NewRelocator(proxyFake, proxyFake, logger)
	relocator.RetryDelay = time.Millisecond

	coordinator := matchmaking.NewCoordinator(roomSvc, roomStore, arenaDir, proxyFake, relocator, logger)
	coordinator.MaxRelocateAttempts = 3

	return &fixture{
		roomSvc:     roomSvc,
		inviteSvc:   inviteSvc,
		roomStore:   roomStore,
		arenaDir:    arenaDir,
		proxyFake:   proxyFake,
		coordinator: coordinator,
	}
}

func registerIdleArena(f *fixture, gameType models.GameType, capacity int, server string) uuid.UUID {
	id := uuid.New()
	f.arenaDir.Register(models.Arena{
		ID:         id,
		GameType:   gameType,
		Capacity:   capacity,
		State:      models.ArenaIdle,
		ServerName: server,
	})
	return id
}

// TestLaunchFullScenario runs the whole life of a room: invite, accept,
// privacy flip, launch, both members relocated, relaunch rejected.
func TestLaunchFullScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	friend := uuid.New()

	room, err := f.roomSvc.Create(ctx, owner, models.GameTypeBedWars, true)
	require.NoError(t, err)

	invite, err := f.inviteSvc.Invite(ctx, room.ID, owner, friend)
	require.NoError(t, err)
	require.NoError(t, f.inviteSvc.Accept(ctx, invite.ID, friend))
	require.NoError(t, f.roomSvc.SetPrivacy(ctx, room.ID, owner, false))

	arenaID := registerIdleArena(f, models.GameTypeBedWars, 2, "arena-1")
	f.proxyFake.SetOnline(owner, true)
	f.proxyFake.SetOnline(friend, true)

	result, err := f.coordinator.Launch(ctx, room.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, arenaID, result.ArenaID)
	assert.Equal(t, "arena-1", result.ServerName)
	assert.Equal(t, 2, result.Relocated)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.Skipped)

	snap, ok := f.arenaDir.Snapshot(arenaID)
	require.True(t, ok)
	assert.Equal(t, models.ArenaActive, snap.State)
	require.NotNil(t, snap.GameRoomID)
	assert.Equal(t, room.ID, *snap.GameRoomID)

	got, err := f.roomSvc.Get(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ArenaID)
	assert.Equal(t, arenaID, *got.ArenaID)

	for _, id := range []uuid.UUID{owner, friend} {
		server, err := f.proxyFake.CurrentServerOf(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "arena-1", server)
	}

	// The room is already assigned; a second launch must fail.
	_, err = f.coordinator.Launch(ctx, room.ID, owner)
	assert.ErrorIs(t, err, rooms.ErrRoomInProgress)
}

func TestLaunchOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.roomSvc.Create(ctx, uuid.New(), models.GameTypeSpleef, false)
	require.NoError(t, err)

	_, err = f.coordinator.Launch(ctx, room.ID, uuid.New())
	assert.ErrorIs(t, err, rooms.ErrNotOwner)
}

func TestLaunchNoArenaLeavesRoomJoinable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	room, err := f.roomSvc.Create(ctx, owner, models.GameTypeSpleef, false)
	require.NoError(t, err)

	// Wrong game type and too small: neither matches.
	registerIdleArena(f, models.GameTypeBedWars, 8, "arena-1")
	tiny := registerIdleArena(f, models.GameTypeSpleef, 0, "arena-2")

	_, err = f.coordinator.Launch(ctx, room.ID, owner)
	assert.ErrorIs(t, err, rooms.ErrNoArenaAvailable)

	got, err := f.roomSvc.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ArenaID)
	assert.NoError(t, f.roomSvc.Join(ctx, room.ID, uuid.New()))

	snap, _ := f.arenaDir.Snapshot(tiny)
	assert.Equal(t, models.ArenaIdle, snap.State)
	assert.Nil(t, snap.GameRoomID)
}

// TestConcurrentLaunchSingleArena races two rooms for one idle arena:
// exactly one launch succeeds, the other sees no arena available.
func TestConcurrentLaunchSingleArena(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerA := uuid.New()
	ownerB := uuid.New()

	roomA, err := f.roomSvc.Create(ctx, ownerA, models.GameTypeTNTRun, false)
	require.NoError(t, err)
	roomB, err := f.roomSvc.Create(ctx, ownerB, models.GameTypeTNTRun, false)
	require.NoError(t, err)

	arenaID := registerIdleArena(f, models.GameTypeTNTRun, 4, "arena-1")
	f.proxyFake.SetOnline(ownerA, true)
	f.proxyFake.SetOnline(ownerB, true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	launches := []struct {
		roomID uuid.UUID
		owner  uuid.UUID
	}{
		{roomA.ID, ownerA},
		{roomB.ID, ownerB},
	}
	for i, l := range launches {
		wg.Add(1)
		go func(i int, roomID, owner uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.coordinator.Launch(ctx, roomID, owner)
		}(i, l.roomID, l.owner)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, rooms.ErrNoArenaAvailable)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one room wins the arena")

	snap, ok := f.arenaDir.Snapshot(arenaID)
	require.True(t, ok)
	require.NotNil(t, snap.GameRoomID)
	winner := *snap.GameRoomID
	assert.Contains(t, []uuid.UUID{roomA.ID, roomB.ID}, winner)
}

// failingActivateDir wraps the memory directory with an Activate that
// always errors, to exercise the unclaim-on-failure path.
type failingActivateDir struct {
	*arena.MemoryDirectory
}

func (d *failingActivateDir) Activate(ctx context.Context, arenaID uuid.UUID) error {
	return assert.AnError
}

func TestLaunchActivationFailureReleasesClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	room, err := f.roomSvc.Create(ctx, owner, models.GameTypeBedWars, false)
	require.NoError(t, err)
	arenaID := registerIdleArena(f, models.GameTypeBedWars, 2, "arena-1")

	relocator := matchmaking.NewRelocator(f.proxyFake, f.proxyFake, testLogger())
	relocator.RetryDelay = time.Millisecond
	coordinator := matchmaking.NewCoordinator(
		f.roomSvc, f.roomStore, &failingActivateDir{f.arenaDir}, f.proxyFake, relocator, testLogger(),
	)

	_, err = coordinator.Launch(ctx, room.ID, owner)
	require.Error(t, err)

	// Claim released, assignment cleared, room joinable again.
	snap, ok := f.arenaDir.Snapshot(arenaID)
	require.True(t, ok)
	assert.Nil(t, snap.GameRoomID)
	assert.Equal(t, models.ArenaIdle, snap.State)

	got, err := f.roomSvc.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ArenaID)
	assert.NoError(t, f.roomSvc.Join(ctx, room.ID, uuid.New()))
}

func TestLaunchSkipsOfflineMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	offline := uuid.New()

	room, err := f.roomSvc.Create(ctx, owner, models.GameTypeSpleef, false)
	require.NoError(t, err)
	require.NoError(t, f.roomSvc.Join(ctx, room.ID, offline))

	registerIdleArena(f, models.GameTypeSpleef, 4, "arena-1")
	f.proxyFake.SetOnline(owner, true)
	// offline user never marked online

	result, err := f.coordinator.Launch(ctx, room.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Relocated)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.Failed)
}

func TestLaunchSucceedsDespiteRelocationFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	stuck := uuid.New()

	room, err := f.roomSvc.Create(ctx, owner, models.GameTypeSpleef, false)
	require.NoError(t, err)
	require.NoError(t, f.roomSvc.Join(ctx, room.ID, stuck))

	registerIdleArena(f, models.GameTypeSpleef, 4, "arena-1")
	f.proxyFake.SetOnline(owner, true)
	f.proxyFake.SetOnline(stuck, true)

	// Connect requests land everyone except the stuck player.
	f.proxyFake.OnConnect = func(userID uuid.UUID, serverName string) {
		if userID != stuck {
			f.proxyFake.SetCurrentServerLocked(userID, serverName)
		}
	}

	result, err := f.coordinator.Launch(ctx, room.ID, owner)
	require.NoError(t, err, "per-member relocation failure is not fatal")
	assert.Equal(t, 1, result.Relocated)
	assert.Equal(t, 1, result.Failed)
}
