package web

import (
	"net/http"
	"strconv"
	"strings"

	"league-registry/internal/league"
	"league-registry/internal/model"
)

func (s *Server) handleMatchSchedule(w http.ResponseWriter, r *http.Request) {
	var payload model.ScheduleMatchPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	match, err := s.service.ScheduleMatch(r.Context(), payload)
	s.respond(w, r, http.StatusCreated, match, err)
}

// handleMatchList serves every match, or the matches of ?team=, ?sport= or ?date=.
func (s *Server) handleMatchList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		matches []model.Match
		err     error
	)
	switch {
	case query.Has("team"):
		raw := strings.TrimSpace(query.Get("team"))
		teamID, parseErr := strconv.ParseUint(raw, 10, 64)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: string(league.KindInvalidPayload), Message: "invalid team id " + strconv.Quote(raw)})
			return
		}
		matches, err = s.service.GetMatchesByTeam(r.Context(), teamID)
	case query.Has("sport"):
		matches, err = s.service.GetMatchesBySportType(r.Context(), model.SportType(strings.TrimSpace(query.Get("sport"))))
	case query.Has("date"):
		matches, err = s.service.GetMatchesByDate(r.Context(), strings.TrimSpace(query.Get("date")))
	default:
		matches, err = s.service.GetAllMatches(r.Context())
	}
	s.respond(w, r, http.StatusOK, matches, err)
}

func (s *Server) handleMatchShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "matchID")
	if !ok {
		return
	}
	match, err := s.service.GetMatch(r.Context(), id)
	s.respond(w, r, http.StatusOK, match, err)
}

func (s *Server) handleMatchResult(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "matchID")
	if !ok {
		return
	}
	var result model.MatchResult
	if !decodeJSON(w, r, &result) {
		return
	}
	match, err := s.service.SubmitMatchResult(r.Context(), model.MatchResultPayload{MatchID: id, Result: result})
	s.respond(w, r, http.StatusOK, match, err)
}
