package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"league-registry/internal/model"
)

type addTournamentRequest struct {
	TournamentID uint64 `json:"tournament_id"`
}

func (s *Server) handleLeagueCreate(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateLeaguePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	created, err := s.service.CreateLeague(r.Context(), payload)
	s.respond(w, r, http.StatusCreated, created, err)
}

func (s *Server) handleLeagueList(w http.ResponseWriter, r *http.Request) {
	leagues, err := s.service.GetAllLeagues(r.Context())
	s.respond(w, r, http.StatusOK, leagues, err)
}

func (s *Server) handleLeagueShow(w http.ResponseWriter, r *http.Request) {
	found, err := s.service.GetLeague(r.Context(), chi.URLParam(r, "leagueID"))
	s.respond(w, r, http.StatusOK, found, err)
}

func (s *Server) handleLeagueTournamentAdd(w http.ResponseWriter, r *http.Request) {
	var req addTournamentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := s.service.AddTournamentToLeague(r.Context(), model.AddTournamentPayload{
		LeagueID:     chi.URLParam(r, "leagueID"),
		TournamentID: req.TournamentID,
	})
	s.respond(w, r, http.StatusOK, updated, err)
}
