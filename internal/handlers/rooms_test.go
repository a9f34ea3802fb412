// internal/handlers/rooms_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/minemaniauk/gamerooms/internal/arena"
	"github.com/minemaniauk/gamerooms/internal/auth"
	"github.com/minemaniauk/gamerooms/internal/database"
	"github.com/minemaniauk/gamerooms/internal/matchmaking"
	"github.com/minemaniauk/gamerooms/internal/models"
	"github.com/minemaniauk/gamerooms/internal/proxy"
	"github.com/minemaniauk/gamerooms/internal/rooms"
	"github.com/minemaniauk/gamerooms/internal/scheduler"
)

func newTestServer(t *testing.T) (*Server, *proxy.MemoryProxy, *arena.MemoryDirectory) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	roomStore := database.NewMemoryRoomStore()
	inviteStore := database.NewMemoryInviteStore()
	roomSvc := rooms.NewRoomService(roomStore, inviteStore, logger, rooms.Config{})
	inviteSvc := rooms.NewInviteService(roomStore, inviteStore, roomSvc, logger)

	arenaDir := arena.NewMemoryDirectory()
	proxyFake := proxy.NewMemoryProxy()
	proxyFake.OnConnect = func(userID uuid.UUID, serverName string) {
		proxyFake.SetCurrentServerLocked(userID, serverName)
	}
	relocator := matchmaking.NewRelocator(proxyFake, proxyFake, logger)
	relocator.RetryDelay = time.Millisecond
	coordinator := matchmaking.NewCoordinator(roomSvc, roomStore, arenaDir, proxyFake, relocator, logger)

	sessions, err := auth.NewEphemeralSessions()
	if err != nil {
		t.Fatalf("failed to init sessions: %v", err)
	}

	return NewServer(roomSvc, inviteSvc, coordinator, scheduler.NewRefresher(logger), sessions, proxyFake, logger), proxyFake, arenaDir
}

func authedRequest(t *testing.T, s *Server, method, path string, userID uuid.UUID, body string) *http.Request {
	t.Helper()
	token, err := s.Sessions.CreateJWT(userID.String())
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Cookie", "auth_token="+token)
	return req
}

// TestCreateRoomHandler checks that /rooms/create persists a room owned by
// the caller.
func TestCreateRoomHandler(t *testing.T) {
	s, _, _ := newTestServer(t)
	owner := uuid.New()

	req := authedRequest(t, s, "POST", "/rooms/create", owner, `{"game_type":"bed_wars","private":true}`)
	w := httptest.NewRecorder()
	s.CreateRoomHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var room models.GameRoom
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}
	if room.ID == uuid.Nil {
		t.Fatalf("room has no ID")
	}
	if room.OwnerID != owner {
		t.Fatalf("room owner mismatch, expected %v got %v", owner, room.OwnerID)
	}
	if !room.HasMember(owner) {
		t.Fatalf("owner not in members")
	}
}

func TestCreateRoomHandlerRejectsBadGameType(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := authedRequest(t, s, "POST", "/rooms/create", uuid.New(), `{"game_type":"chess"}`)
	w := httptest.NewRecorder()
	s.CreateRoomHandler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateRoomHandlerRequiresAuth(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/rooms/create", bytes.NewBufferString(`{"game_type":"spleef"}`))
	w := httptest.NewRecorder()
	s.CreateRoomHandler().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJoinAndLaunchRoundTrip(t *testing.T) {
	s, proxyFake, arenaDir := newTestServer(t)
	owner := uuid.New()
	member := uuid.New()

	// Create a public room.
	req := authedRequest(t, s, "POST", "/rooms/create", owner, `{"game_type":"spleef"}`)
	w := httptest.NewRecorder()
	s.CreateRoomHandler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	var room models.GameRoom
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}

	// Member joins.
	body := fmt.Sprintf(`{"room_id":%q}`, room.ID)
	req = authedRequest(t, s, "POST", "/rooms/join", member, body)
	w = httptest.NewRecorder()
	s.JoinRoomHandler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("join failed: %d %s", w.Code, w.Body.String())
	}

	// Launch with an idle arena available.
	arenaDir.Register(models.Arena{
		ID:         uuid.New(),
		GameType:   models.GameTypeSpleef,
		Capacity:   4,
		State:      models.ArenaIdle,
		ServerName: "arena-1",
	})
	proxyFake.SetOnline(owner, true)
	proxyFake.SetOnline(member, true)

	req = authedRequest(t, s, "POST", "/rooms/launch", owner, body)
	w = httptest.NewRecorder()
	s.LaunchHandler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("launch failed: %d %s", w.Code, w.Body.String())
	}
	var result matchmaking.LaunchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode launch result: %v", err)
	}
	if result.Relocated != 2 {
		t.Fatalf("expected 2 relocated, got %d", result.Relocated)
	}

	// Launching again conflicts.
	req = authedRequest(t, s, "POST", "/rooms/launch", owner, body)
	w = httptest.NewRecorder()
	s.LaunchHandler().ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on relaunch, got %d", w.Code)
	}
}

func TestLaunchNonOwnerForbidden(t *testing.T) {
	s, _, _ := newTestServer(t)
	owner := uuid.New()

	req := authedRequest(t, s, "POST", "/rooms/create", owner, `{"game_type":"spleef"}`)
	w := httptest.NewRecorder()
	s.CreateRoomHandler().ServeHTTP(w, req)
	var room models.GameRoom
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}

	body := fmt.Sprintf(`{"room_id":%q}`, room.ID)
	req = authedRequest(t, s, "POST", "/rooms/launch", uuid.New(), body)
	w = httptest.NewRecorder()
	s.LaunchHandler().ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
