// internal/handlers/watch_ws.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/minemaniauk/gamerooms/internal/middleware"
)

// watchSnapshot is one refresh tick's payload for a room observer.
type watchSnapshot struct {
	Type string      `json:"type"`
	Room interface{} `json:"room,omitempty"`
}

// WatchRoomHandler serves a websocket that pushes a fresh room snapshot
// every refresh interval. Each connection gets its own keyed refresh
// session, stopped when the client disconnects. There is no push channel
// from mutations; observers are eventually consistent by re-poll.
func (s *Server) WatchRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomIDStr := strings.TrimPrefix(r.URL.Path, "/rooms/watch/")
		roomID, err := uuid.Parse(roomIDStr)
		if err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}

		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"room-watch"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			s.Logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")
		middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)

		// CloseRead discards client messages and cancels the context when
		// the connection drops.
		ctx := c.CloseRead(r.Context())

		sessionKey := fmt.Sprintf("watch:%s:%s", roomID, userID)
		done := make(chan struct{})

		s.Refresher.Start(sessionKey, s.RefreshInterval, func() {
			writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			room, err := s.Rooms.Get(writeCtx, roomID)
			if err != nil {
				// Room gone (or store unavailable): tell the observer and
				// end the session.
				_ = wsjson.Write(writeCtx, c, watchSnapshot{Type: "room_gone"})
				select {
				case <-done:
				default:
					close(done)
				}
				return
			}
			if err := wsjson.Write(writeCtx, c, watchSnapshot{Type: "room_state", Room: room}); err != nil {
				select {
				case <-done:
				default:
					close(done)
				}
			}
		})

		select {
		case <-ctx.Done():
		case <-done:
		}
		s.Refresher.Stop(sessionKey)
		middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, nil)
		c.Close(websocket.StatusNormalClosure, "watch ended")
	}
}
