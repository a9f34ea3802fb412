// internal/handlers/servers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// SelectServerHandler picks the least loaded of a set of candidate servers.
// The proxy calls this when it needs to place a player on one of several
// equivalent servers (hub group, minigame group).
func (s *Server) SelectServerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authenticate(w, r); !ok {
			return
		}
		var req struct {
			Candidates []string `json:"candidates"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		if len(req.Candidates) == 0 {
			http.Error(w, "no candidates", http.StatusBadRequest)
			return
		}

		name, ok := s.selectLeastLoaded(r, req.Candidates)
		if !ok {
			http.Error(w, "no candidate resolved", http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]string{"server": name})
	}
}

// AdminListRoomsHandler lists public rooms for operators, authenticated by
// the shared API token rather than a player session.
func (s *Server) AdminListRoomsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticateOperator(w, r) {
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

// authenticateOperator checks the X-API-Token header against the configured
// argon2id hash. Writes the error response itself on failure.
func (s *Server) authenticateOperator(w http.ResponseWriter, r *http.Request) bool {
	if s.APITokenHash == "" {
		http.Error(w, "operator endpoints disabled", http.StatusForbidden)
		return false
	}
	token := strings.TrimSpace(r.Header.Get("X-API-Token"))
	if token == "" {
		http.Error(w, "missing api token", http.StatusUnauthorized)
		return false
	}
	ok, err := s.compareToken(token)
	if err != nil || !ok {
		http.Error(w, "invalid api token", http.StatusForbidden)
		return false
	}
	return true
}
