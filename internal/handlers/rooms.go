// internal/handlers/rooms.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// CreateRoomHandler creates a room owned by the calling user.
func (s *Server) CreateRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}

		var req struct {
			GameType models.GameType `json:"game_type"`
			Private  bool            `json:"private"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad room request payload", http.StatusBadRequest)
			return
		}
		if !req.GameType.Valid() {
			http.Error(w, "invalid game type", http.StatusBadRequest)
			return
		}

		room, err := s.Rooms.Create(r.Context(), userID, req.GameType, req.Private)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, room)
	}
}

// roomActionRequest is the shared body for join/leave/launch.
type roomActionRequest struct {
	RoomID uuid.UUID `json:"room_id"`
}

// JoinRoomHandler adds the calling user to a room.
func (s *Server) JoinRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		var req roomActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		if err := s.Rooms.Join(r.Context(), req.RoomID, userID); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "joined"})
	}
}

// LeaveRoomHandler removes the calling user; the owner leaving deletes the
// room.
func (s *Server) LeaveRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		var req roomActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		if err := s.Rooms.Leave(r.Context(), req.RoomID, userID); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "left"})
	}
}

// SetPrivacyHandler toggles room visibility. Owner only.
func (s *Server) SetPrivacyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		var req struct {
			RoomID  uuid.UUID `json:"room_id"`
			Private bool      `json:"private"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		if err := s.Rooms.SetPrivacy(r.Context(), req.RoomID, userID, req.Private); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "updated"})
	}
}

// ListRoomsHandler returns every public room that has not launched.
func (s *Server) ListRoomsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authenticate(w, r); !ok {
			return
		}
		list, err := s.Rooms.ListPublicAvailable(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, list)
	}
}

// LaunchHandler launches the room onto an arena. Owner only.
func (s *Server) LaunchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		var req roomActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		result, err := s.Coordinator.Launch(r.Context(), req.RoomID, userID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, result)
	}
}
