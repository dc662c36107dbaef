package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
	"github.com/robalobadob/phoenix/apps/go-server/internal/moves"
)

// movesRes is returned by GET /moves/available.
type movesRes struct {
	Moves []game.AttackMove `json:"moves"`
	Total int               `json:"total"`
}

func (s *Server) mountMoves(r chi.Router) {
	r.Get("/moves/available", func(w http.ResponseWriter, r *http.Request) {
		all := moves.All()
		writeJSON(w, http.StatusOK, movesRes{Moves: all, Total: len(all)})
	})
}
