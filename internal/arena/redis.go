// internal/arena/redis.go
package arena

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// Redis key layout, written by the game servers that host the arenas:
//
//	arenas            set of arena ids
//	arena:<id>        hash: game_type, capacity, state, server_name,
//	                  game_room_id (present only while claimed)
const (
	arenaSetKey    = "arenas"
	arenaKeyPrefix = "arena:"

	fieldGameType   = "game_type"
	fieldCapacity   = "capacity"
	fieldState      = "state"
	fieldServerName = "server_name"
	fieldGameRoomID = "game_room_id"
)

// RedisDirectory implements Directory over shared redis state. The claim is
// an HSetNX on the arena's game_room_id field, which redis guarantees to
// succeed for exactly one caller.
type RedisDirectory struct {
	rdb *redis.Client
}

// NewRedisDirectory wraps an existing redis client.
func NewRedisDirectory(rdb *redis.Client) *RedisDirectory {
	return &RedisDirectory{rdb: rdb}
}

func arenaKey(id uuid.UUID) string {
	return arenaKeyPrefix + id.String()
}

// FindAvailable iterates the arena set in sorted id order so "first found"
// is deterministic across processes.
func (d *RedisDirectory) FindAvailable(ctx context.Context, gameType models.GameType, minCapacity int) (*models.Arena, error) {
	ids, err := d.rdb.SMembers(ctx, arenaSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list arenas: %w", err)
	}
	sort.Strings(ids)

	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		arena, err := d.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if arena == nil {
			continue
		}
		if arena.State != models.ArenaIdle || arena.GameRoomID != nil {
			continue
		}
		if arena.GameType != gameType || arena.Capacity < minCapacity {
			continue
		}
		return arena, nil
	}
	return nil, nil
}

// Claim test-and-sets the assignment field and marks the arena reserved.
func (d *RedisDirectory) Claim(ctx context.Context, arenaID, roomID uuid.UUID) (bool, error) {
	ok, err := d.rdb.HSetNX(ctx, arenaKey(arenaID), fieldGameRoomID, roomID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("claim arena %s: %w", arenaID, err)
	}
	if !ok {
		return false, nil
	}
	if err := d.rdb.HSet(ctx, arenaKey(arenaID), fieldState, string(models.ArenaReserved)).Err(); err != nil {
		return false, fmt.Errorf("mark arena %s reserved: %w", arenaID, err)
	}
	return true, nil
}

// Activate transitions the arena to running.
func (d *RedisDirectory) Activate(ctx context.Context, arenaID uuid.UUID) error {
	if err := d.rdb.HSet(ctx, arenaKey(arenaID), fieldState, string(models.ArenaActive)).Err(); err != nil {
		return fmt.Errorf("activate arena %s: %w", arenaID, err)
	}
	return nil
}

// Release drops the claim and returns the arena to idle.
func (d *RedisDirectory) Release(ctx context.Context, arenaID uuid.UUID) error {
	pipe := d.rdb.TxPipeline()
	pipe.HDel(ctx, arenaKey(arenaID), fieldGameRoomID)
	pipe.HSet(ctx, arenaKey(arenaID), fieldState, string(models.ArenaIdle))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("release arena %s: %w", arenaID, err)
	}
	return nil
}

// HostServer resolves the backend server hosting the arena.
func (d *RedisDirectory) HostServer(ctx context.Context, arenaID uuid.UUID) (string, error) {
	name, err := d.rdb.HGet(ctx, arenaKey(arenaID), fieldServerName).Result()
	if err == redis.Nil || name == "" {
		return "", fmt.Errorf("arena %s has no host server", arenaID)
	}
	if err != nil {
		return "", fmt.Errorf("resolve arena %s host: %w", arenaID, err)
	}
	return name, nil
}

func (d *RedisDirectory) get(ctx context.Context, id uuid.UUID) (*models.Arena, error) {
	fields, err := d.rdb.HGetAll(ctx, arenaKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load arena %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	capacity, _ := strconv.Atoi(fields[fieldCapacity])
	arena := &models.Arena{
		ID:         id,
		GameType:   models.GameType(fields[fieldGameType]),
		Capacity:   capacity,
		State:      models.ArenaState(fields[fieldState]),
		ServerName: fields[fieldServerName],
	}
	if raw, ok := fields[fieldGameRoomID]; ok && raw != "" {
		roomID, err := uuid.Parse(raw)
		if err == nil {
			arena.GameRoomID = &roomID
		}
	}
	return arena, nil
}
