// internal/matchmaking/relocate.go
package matchmaking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/minemaniauk/gamerooms/internal/proxy"
	"github.com/minemaniauk/gamerooms/internal/rooms"
)

// DefaultRelocateAttempts matches the retry depth the proxy has always used
// for forced transfers.
const DefaultRelocateAttempts = 10

// Relocator moves a connected user to a destination server with a bounded
// retry budget. Each attempt fires a non-blocking connect request, then
// checks whether the user ended up on the destination; failed attempts wait
// a fixed delay before the next try. The chain self-terminates when the
// budget runs out.
type Relocator struct {
	dir    proxy.Directory
	conn   proxy.Connector
	logger *logrus.Logger

	// RetryDelay is the pause between attempts. Defaults to one second;
	// tests shorten it.
	RetryDelay time.Duration
}

// NewRelocator builds a Relocator with the standard one second retry delay.
func NewRelocator(dir proxy.Directory, conn proxy.Connector, logger *logrus.Logger) *Relocator {
	return &Relocator{
		dir:        dir,
		conn:       conn,
		logger:     logger,
		RetryDelay: time.Second,
	}
}

// Relocate attempts to land userID on serverName within maxAttempts tries.
// Returns rooms.ErrRelocationFailed once the budget is exhausted.
func (r *Relocator) Relocate(ctx context.Context, userID uuid.UUID, serverName string, maxAttempts int) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := r.conn.RequestConnect(ctx, userID, serverName); err != nil {
			// Definite failure to even issue the request; still costs an
			// attempt from the budget.
			r.logger.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"server":  serverName,
				"attempt": attempt,
			}).Warn("connect request failed")
		} else {
			current, err := r.dir.CurrentServerOf(ctx, userID)
			if err != nil {
				r.logger.WithError(err).WithField("user_id", userID).Warn("could not read current server")
			} else if current == serverName {
				return nil
			}
		}

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("relocate %s: %w", userID, ctx.Err())
		case <-time.After(r.RetryDelay):
		}
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"server":   serverName,
		"attempts": maxAttempts,
	}).Warn("relocation gave up")
	return fmt.Errorf("relocate %s to %s: %w", userID, serverName, rooms.ErrRelocationFailed)
}
