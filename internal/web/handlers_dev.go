package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"league-registry/internal/league"
)

const devTokenTTL = 24 * time.Hour

type devTokenRequest struct {
	Subject string `json:"subject"`
}

type devTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleDevToken signs a bearer token for any subject. Only served in dev mode.
func (s *Server) handleDevToken(w http.ResponseWriter, r *http.Request) {
	if !s.devMode || len(s.jwtSecret) == 0 {
		http.NotFound(w, r)
		return
	}
	var req devTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: string(league.KindInvalidPayload), Message: "subject is required"})
		return
	}
	token, expires, err := SignToken(s.jwtSecret, subject, devTokenTTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, devTokenResponse{Token: token, ExpiresAt: expires})
}

// SignToken issues an HS256 token whose subject is the caller principal.
func SignToken(secret []byte, subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}
