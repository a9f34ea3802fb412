// internal/handlers/invites.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// SendInviteHandler invites a player to the caller's room. Idempotent:
// re-inviting the same player succeeds without a new invite.
func (s *Server) SendInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		var req struct {
			RoomID   uuid.UUID `json:"room_id"`
			TargetID uuid.UUID `json:"target_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		invite, err := s.Invites.Invite(r.Context(), req.RoomID, userID, req.TargetID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if invite == nil {
			writeJSON(w, map[string]string{"status": "already_invited"})
			return
		}
		writeJSON(w, invite)
	}
}

// ListInvitesHandler returns the caller's live invites. Dangling invites
// are purged, not returned.
func (s *Server) ListInvitesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		list, err := s.Invites.ListForUser(r.Context(), userID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, list)
	}
}

// inviteActionRequest is the shared body for accept/decline.
type inviteActionRequest struct {
	InviteID uuid.UUID `json:"invite_id"`
}

// AcceptInviteHandler accepts an invite and joins the room.
func (s *Server) AcceptInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		var req inviteActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		if err := s.Invites.Accept(r.Context(), req.InviteID, userID); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "accepted"})
	}
}

// DeclineInviteHandler declines and deletes an invite.
func (s *Server) DeclineInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authenticate(w, r); !ok {
			return
		}
		var req inviteActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		if err := s.Invites.Decline(r.Context(), req.InviteID); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "declined"})
	}
}
