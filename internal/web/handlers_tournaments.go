package web

import (
	"net/http"

	"league-registry/internal/model"
)

func (s *Server) handleTournamentCreate(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateTournamentPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	tournament, err := s.service.CreateTournament(r.Context(), payload)
	s.respond(w, r, http.StatusCreated, tournament, err)
}

func (s *Server) handleTournamentList(w http.ResponseWriter, r *http.Request) {
	tournaments, err := s.service.GetAllTournaments(r.Context())
	s.respond(w, r, http.StatusOK, tournaments, err)
}

func (s *Server) handleTournamentShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "tournamentID")
	if !ok {
		return
	}
	tournament, err := s.service.GetTournament(r.Context(), id)
	s.respond(w, r, http.StatusOK, tournament, err)
}
