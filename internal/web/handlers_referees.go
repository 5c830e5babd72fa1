package web

import (
	"net/http"

	"league-registry/internal/model"
)

type rateRefereeRequest struct {
	MatchID uint64  `json:"match_id"`
	Rating  float32 `json:"rating"`
}

func (s *Server) handleRefereeRegister(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRefereePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	referee, err := s.service.RegisterReferee(r.Context(), payload)
	s.respond(w, r, http.StatusCreated, referee, err)
}

func (s *Server) handleRefereeList(w http.ResponseWriter, r *http.Request) {
	referees, err := s.service.GetAllReferees(r.Context())
	s.respond(w, r, http.StatusOK, referees, err)
}

func (s *Server) handleRefereeShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "refereeID")
	if !ok {
		return
	}
	referee, err := s.service.GetReferee(r.Context(), id)
	s.respond(w, r, http.StatusOK, referee, err)
}

func (s *Server) handleRefereeRate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "refereeID")
	if !ok {
		return
	}
	var req rateRefereeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	referee, err := s.service.RateReferee(r.Context(), model.RateRefereePayload{RefereeID: id, MatchID: req.MatchID, Rating: req.Rating})
	s.respond(w, r, http.StatusOK, referee, err)
}
