package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"league-registry/internal/league"
)

const callerHeader = "X-Caller"

// WithCaller resolves the calling principal and stores it in the request
// context. Requests without a valid identity are rejected, except on public paths.
func (s *Server) WithCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		caller, err := s.callerFromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthenticated", Message: err.Error()})
			return
		}
		ctx := league.WithCaller(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) callerFromRequest(r *http.Request) (league.Principal, error) {
	if s.devMode {
		if caller := strings.TrimSpace(r.Header.Get(callerHeader)); caller != "" {
			return league.Principal(caller), nil
		}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errors.New("authorization header must use the Bearer scheme")
	}
	subject, err := s.verifyToken(strings.TrimSpace(token))
	if err != nil {
		return "", err
	}
	return league.Principal(subject), nil
}

func (s *Server) verifyToken(raw string) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("token verification is not configured")
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

func isPublicPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/dev/")
}
