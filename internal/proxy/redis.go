// internal/proxy/redis.go
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis key layout, maintained by the proxy plugin:
//
//	proxy:servers        hash: server name -> live player count
//	proxy:online         set of online user ids
//	proxy:player_server  hash: user id -> current server name
//	proxy:connect_queue  list of pending transfer requests (JSON)
const (
	serversKey      = "proxy:servers"
	onlineKey       = "proxy:online"
	playerServerKey = "proxy:player_server"
	connectQueueKey = "proxy:connect_queue"
)

// connectRequest is the queue payload the proxy consumes to move a player.
type connectRequest struct {
	UserID     uuid.UUID `json:"user_id"`
	ServerName string    `json:"server_name"`
	Timestamp  int64     `json:"timestamp"`
}

// RedisProxy implements Directory and Connector over the proxy's mirrored
// state in redis. Transfer requests are pushed onto a queue the proxy
// drains, so RequestConnect never blocks on the actual connection.
type RedisProxy struct {
	rdb *redis.Client
}

// NewRedisProxy wraps an existing redis client.
func NewRedisProxy(rdb *redis.Client) *RedisProxy {
	return &RedisProxy{rdb: rdb}
}

func (p *RedisProxy) OnlineUsers(ctx context.Context) ([]uuid.UUID, error) {
	raw, err := p.rdb.SMembers(ctx, onlineKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list online users: %w", err)
	}
	users := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		users = append(users, id)
	}
	return users, nil
}

func (p *RedisProxy) ServerNames(ctx context.Context) ([]string, error) {
	names, err := p.rdb.HKeys(ctx, serversKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return names, nil
}

func (p *RedisProxy) PlayerCountOn(ctx context.Context, serverName string) (int, error) {
	count, err := p.rdb.HGet(ctx, serversKey, serverName).Int()
	if err == redis.Nil {
		return 0, fmt.Errorf("server %q not registered", serverName)
	}
	if err != nil {
		return 0, fmt.Errorf("player count for %q: %w", serverName, err)
	}
	return count, nil
}

func (p *RedisProxy) IsUserOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	online, err := p.rdb.SIsMember(ctx, onlineKey, userID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("online check for %s: %w", userID, err)
	}
	return online, nil
}

func (p *RedisProxy) CurrentServerOf(ctx context.Context, userID uuid.UUID) (string, error) {
	name, err := p.rdb.HGet(ctx, playerServerKey, userID.String()).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("current server of %s: %w", userID, err)
	}
	return name, nil
}

// RequestConnect enqueues a transfer request for the proxy to execute.
func (p *RedisProxy) RequestConnect(ctx context.Context, userID uuid.UUID, serverName string) error {
	data, err := json.Marshal(connectRequest{
		UserID:     userID,
		ServerName: serverName,
		Timestamp:  time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal connect request: %w", err)
	}
	if err := p.rdb.RPush(ctx, connectQueueKey, data).Err(); err != nil {
		return fmt.Errorf("enqueue connect request: %w", err)
	}
	return nil
}
