// internal/proxy/proxy.go
package proxy

import (
	"context"

	"github.com/google/uuid"
)

// Directory is a read-only view over proxy state: who is online, which
// backend servers exist and how many players each carries.
type Directory interface {
	OnlineUsers(ctx context.Context) ([]uuid.UUID, error)
	ServerNames(ctx context.Context) ([]string, error)
	PlayerCountOn(ctx context.Context, serverName string) (int, error)
	IsUserOnline(ctx context.Context, userID uuid.UUID) (bool, error)

	// CurrentServerOf returns the server the user is connected to, or
	// ("", nil) when the user is not on any server.
	CurrentServerOf(ctx context.Context, userID uuid.UUID) (string, error)
}

// Connector issues non-blocking server transfer requests. The request is
// fire-and-forget; the outcome is observed by polling CurrentServerOf.
type Connector interface {
	RequestConnect(ctx context.Context, userID uuid.UUID, serverName string) error
}
