// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/minemaniauk/gamerooms/internal/rooms"
)

// extractCookieToken extracts a named cookie value from the "Cookie" header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// authenticate resolves the calling user from the auth_token cookie. Writes
// the error response itself and returns false when authentication fails.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "auth_token=") {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	token := extractCookieToken(cookie, "auth_token")

	userIDStr, err := s.Sessions.AuthenticateJWT(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "invalid user id format in token", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return userID, true
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound), errors.Is(err, rooms.ErrInviteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, rooms.ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, rooms.ErrRoomInProgress), errors.Is(err, rooms.ErrNoArenaAvailable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.Logger.WithError(err).Error("internal error")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
