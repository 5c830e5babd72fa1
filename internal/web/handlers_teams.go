package web

import (
	"net/http"

	"league-registry/internal/model"
)

type addMemberRequest struct {
	MemberID uint64 `json:"member_id"`
}

type assignCoachRequest struct {
	CoachID uint64 `json:"coach_id"`
}

func (s *Server) handleTeamCreate(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateTeamPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	team, err := s.service.CreateTeam(r.Context(), payload)
	s.respond(w, r, http.StatusCreated, team, err)
}

func (s *Server) handleTeamList(w http.ResponseWriter, r *http.Request) {
	teams, err := s.service.GetAllTeams(r.Context())
	s.respond(w, r, http.StatusOK, teams, err)
}

func (s *Server) handleTeamShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "teamID")
	if !ok {
		return
	}
	team, err := s.service.GetTeam(r.Context(), id)
	s.respond(w, r, http.StatusOK, team, err)
}

func (s *Server) handleTeamMemberAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "teamID")
	if !ok {
		return
	}
	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	team, err := s.service.AddMemberToTeam(r.Context(), model.AddMemberPayload{TeamID: id, MemberID: req.MemberID})
	s.respond(w, r, http.StatusOK, team, err)
}

func (s *Server) handleTeamCoachAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "teamID")
	if !ok {
		return
	}
	var req assignCoachRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	team, err := s.service.AssignCoach(r.Context(), model.AssignCoachPayload{TeamID: id, CoachID: req.CoachID})
	s.respond(w, r, http.StatusOK, team, err)
}
