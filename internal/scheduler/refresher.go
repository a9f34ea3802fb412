// internal/scheduler/refresher.go

// Package scheduler provides keyed, process-lifetime periodic refresh
// sessions. Long-lived observers (an open room view, a websocket watcher)
// register an action under a key and receive a tick every interval until the
// key is stopped.
package scheduler

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Refresher runs one goroutine per active session. Restarting a key
// replaces the prior session. Stop prevents any further ticks; an action
// already in flight is allowed to finish its current tick.
type Refresher struct {
	mu       sync.Mutex
	sessions map[string]chan struct{}
	logger   *logrus.Logger
}

// NewRefresher returns an empty Refresher.
func NewRefresher(logger *logrus.Logger) *Refresher {
	return &Refresher{
		sessions: make(map[string]chan struct{}),
		logger:   logger,
	}
}

// Start begins invoking action every interval under the given key. A
// session already registered under the key is stopped first.
func (r *Refresher) Start(key string, interval time.Duration, action func()) {
	r.mu.Lock()
	if stop, ok := r.sessions[key]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	r.sessions[key] = stop
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{"session": key, "interval": interval}).Debug("refresh session started")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Re-check after the tick fires so a session stopped while
				// we were waiting does not run one more action.
				select {
				case <-stop:
					return
				default:
				}
				action()
			}
		}
	}()
}

// Stop cancels the session under key, if any. The next tick will not fire.
func (r *Refresher) Stop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stop, ok := r.sessions[key]; ok {
		close(stop)
		delete(r.sessions, key)
		r.logger.WithField("session", key).Debug("refresh session stopped")
	}
}

// StopAll cancels every active session. Used at shutdown.
func (r *Refresher) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, stop := range r.sessions {
		close(stop)
		delete(r.sessions, key)
	}
}

// Active reports whether a session is registered under key.
func (r *Refresher) Active(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[key]
	return ok
}
