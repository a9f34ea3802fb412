// internal/handlers/server.go

// Package handlers exposes the room, invite and launch operations over a
// thin JSON surface, plus a websocket watch feed. The proxy's menu layer is
// the intended caller; everything here stays a shim over the services.
package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/minemaniauk/gamerooms/internal/auth"
	"github.com/minemaniauk/gamerooms/internal/balance"
	"github.com/minemaniauk/gamerooms/internal/matchmaking"
	"github.com/minemaniauk/gamerooms/internal/middleware"
	"github.com/minemaniauk/gamerooms/internal/proxy"
	"github.com/minemaniauk/gamerooms/internal/rooms"
	"github.com/minemaniauk/gamerooms/internal/scheduler"
)

// Server bundles the services the HTTP surface calls into.
type Server struct {
	Rooms       *rooms.RoomService
	Invites     *rooms.InviteService
	Coordinator *matchmaking.Coordinator
	Refresher   *scheduler.Refresher
	Sessions    *auth.Sessions
	Directory   proxy.Directory
	Logger      *logrus.Logger

	// RefreshInterval drives websocket watch snapshots.
	RefreshInterval time.Duration

	// APITokenHash is the argon2id hash guarding operator endpoints.
	// Empty disables them.
	APITokenHash string
}

// NewServer wires a Server with a default two second watch interval.
func NewServer(roomSvc *rooms.RoomService, inviteSvc *rooms.InviteService, coordinator *matchmaking.Coordinator, refresher *scheduler.Refresher, sessions *auth.Sessions, dir proxy.Directory, logger *logrus.Logger) *Server {
	return &Server{
		Rooms:           roomSvc,
		Invites:         inviteSvc,
		Coordinator:     coordinator,
		Refresher:       refresher,
		Sessions:        sessions,
		Directory:       dir,
		Logger:          logger,
		RefreshInterval: 2 * time.Second,
	}
}

// selectLeastLoaded delegates to the balance package against the live
// directory.
func (s *Server) selectLeastLoaded(r *http.Request, candidates []string) (string, bool) {
	return balance.SelectLeastLoaded(r.Context(), s.Directory, s.Logger, candidates)
}

// compareToken checks a presented operator token against the stored hash.
func (s *Server) compareToken(token string) (bool, error) {
	return auth.CompareTokenAndHash(token, s.APITokenHash)
}

// Routes builds the request mux with logging middleware on every endpoint.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(s.Logger)

	mux.Handle("/rooms/create", logged(s.CreateRoomHandler()))
	mux.Handle("/rooms/join", logged(s.JoinRoomHandler()))
	mux.Handle("/rooms/leave", logged(s.LeaveRoomHandler()))
	mux.Handle("/rooms/privacy", logged(s.SetPrivacyHandler()))
	mux.Handle("/rooms/list", logged(s.ListRoomsHandler()))
	mux.Handle("/rooms/launch", logged(s.LaunchHandler()))
	mux.Handle("/rooms/watch/", logged(s.WatchRoomHandler()))

	mux.Handle("/invites/send", logged(s.SendInviteHandler()))
	mux.Handle("/invites/list", logged(s.ListInvitesHandler()))
	mux.Handle("/invites/accept", logged(s.AcceptInviteHandler()))
	mux.Handle("/invites/decline", logged(s.DeclineInviteHandler()))

	mux.Handle("/servers/select", logged(s.SelectServerHandler()))
	mux.Handle("/admin/rooms", logged(s.AdminListRoomsHandler()))

	return mux
}
