// internal/httpserver/routes_progress.go
//
// HTTP routes for player progress. Exposes three endpoints under
// /api/game/progress:
//   - POST /                → create the default record for a player
//   - GET  /{playerId}      → fetch a player's record
//   - PUT  /{playerId}      → merge a partial update into the record
//
// One record exists per playerId; a repeated create answers 409.
// Updates replace each supplied field wholesale and leave the rest alone.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
)

// mountProgress registers all /game/progress routes.
func (s *Server) mountProgress(r chi.Router) {
	r.Route("/game/progress", func(r chi.Router) {
		r.Post("/", s.handleCreateProgress)
		r.Get("/{playerId}", s.handleGetProgress)
		r.Put("/{playerId}", s.handleUpdateProgress)
	})
}

// createProgressReq is the request payload for POST /game/progress.
type createProgressReq struct {
	PlayerID    string            `json:"playerId"`
	PlayerStats *game.PlayerStats `json:"playerStats,omitempty"`
}

// handleCreateProgress creates a player's record with default (or supplied) stats.
func (s *Server) handleCreateProgress(w http.ResponseWriter, r *http.Request) {
	var req createProgressReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.progress.Create(r.Context(), req.PlayerID, req.PlayerStats)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleGetProgress returns the stored record or 404.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.progress.Get(r.Context(), chi.URLParam(r, "playerId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateProgress merges the supplied fields and returns the full record.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var u game.ProgressUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.progress.Update(r.Context(), chi.URLParam(r, "playerId"), u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
