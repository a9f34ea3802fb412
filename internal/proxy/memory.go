// internal/proxy/memory.go
package proxy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryProxy is a scriptable Directory + Connector fake for tests. Connect
// requests are recorded, and OnConnect (when set) decides what each request
// does to the player's current server.
type MemoryProxy struct {
	mu            sync.Mutex
	serverCounts  map[string]int
	playerServers map[uuid.UUID]string
	online        map[uuid.UUID]bool
	requests      []ConnectRequest

	// OnConnect, when non-nil, runs for every RequestConnect with the lock
	// held. It can call SetCurrentServerLocked to simulate a transfer.
	OnConnect func(userID uuid.UUID, serverName string)
}

// ConnectRequest records one RequestConnect call.
type ConnectRequest struct {
	UserID     uuid.UUID
	ServerName string
}

// NewMemoryProxy returns an empty proxy fake.
func NewMemoryProxy() *MemoryProxy {
	return &MemoryProxy{
		serverCounts:  make(map[string]int),
		playerServers: make(map[uuid.UUID]string),
		online:        make(map[uuid.UUID]bool),
	}
}

// SetServerCount registers a server with a live player count.
func (p *MemoryProxy) SetServerCount(name string, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.serverCounts[name] = count
}

// SetOnline marks a user online or offline.
func (p *MemoryProxy) SetOnline(userID uuid.UUID, online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[userID] = online
}

// SetCurrentServer places a user on a server.
func (p *MemoryProxy) SetCurrentServer(userID uuid.UUID, serverName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SetCurrentServerLocked(userID, serverName)
}

// SetCurrentServerLocked is the lock-held variant for OnConnect callbacks.
func (p *MemoryProxy) SetCurrentServerLocked(userID uuid.UUID, serverName string) {
	p.playerServers[userID] = serverName
}

// Requests returns a copy of all recorded connect requests.
func (p *MemoryProxy) Requests() []ConnectRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ConnectRequest(nil), p.requests...)
}

func (p *MemoryProxy) OnlineUsers(ctx context.Context) ([]uuid.UUID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var users []uuid.UUID
	for id, online := range p.online {
		if online {
			users = append(users, id)
		}
	}
	return users, nil
}

func (p *MemoryProxy) ServerNames(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var names []string
	for name := range p.serverCounts {
		names = append(names, name)
	}
	return names, nil
}

func (p *MemoryProxy) PlayerCountOn(ctx context.Context, serverName string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	count, ok := p.serverCounts[serverName]
	if !ok {
		return 0, fmt.Errorf("server %q not registered", serverName)
	}
	return count, nil
}

func (p *MemoryProxy) IsUserOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userID], nil
}

func (p *MemoryProxy) CurrentServerOf(ctx context.Context, userID uuid.UUID) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playerServers[userID], nil
}

func (p *MemoryProxy) RequestConnect(ctx context.Context, userID uuid.UUID, serverName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, ConnectRequest{UserID: userID, ServerName: serverName})
	if p.OnConnect != nil {
		p.OnConnect(userID, serverName)
	}
	return nil
}
