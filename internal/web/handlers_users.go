package web

import (
	"net/http"
	"strings"

	"league-registry/internal/model"
)

type updateUserRequest struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address string         `json:"address"`
	Role    model.UserRole `json:"role"`
}

func (s *Server) handleUserRegister(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterUserPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	user, err := s.service.RegisterUser(r.Context(), payload)
	s.respond(w, r, http.StatusCreated, user, err)
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		user, err := s.service.GetUserByName(r.Context(), name)
		s.respond(w, r, http.StatusOK, user, err)
		return
	}
	users, err := s.service.GetAllUsers(r.Context())
	s.respond(w, r, http.StatusOK, users, err)
}

func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.GetUserByOwner(r.Context())
	s.respond(w, r, http.StatusOK, user, err)
}

func (s *Server) handleUserShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "userID")
	if !ok {
		return
	}
	user, err := s.service.GetUser(r.Context(), id)
	s.respond(w, r, http.StatusOK, user, err)
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "userID")
	if !ok {
		return
	}
	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.service.UpdateUser(r.Context(), model.UpdateUserPayload{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Role:    req.Role,
	})
	s.respond(w, r, http.StatusOK, user, err)
}
