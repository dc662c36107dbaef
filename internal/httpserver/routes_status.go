package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/phoenix/apps/go-server/internal/status"
)

// statusReq is the request payload for POST /status.
type statusReq struct {
	ClientName string `json:"client_name"`
}

// mountStatus registers the client status-check routes.
func (s *Server) mountStatus(r chi.Router) {
	r.Post("/status", func(w http.ResponseWriter, r *http.Request) {
		var req statusReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		c, err := s.checks.Insert(r.Context(), req.ClientName)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	})
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		list, err := s.checks.List(r.Context(), status.MaxList)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})
}
