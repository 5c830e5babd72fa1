package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"league-registry/internal/league"
	"league-registry/internal/store"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind league.Kind) int {
	switch kind {
	case league.KindInvalidPayload:
		return http.StatusBadRequest
	case league.KindUnauthorized:
		return http.StatusForbidden
	case league.KindNotFound:
		return http.StatusNotFound
	case league.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := league.KindOf(err)
	if kind != "" {
		var e *league.Error
		errors.As(err, &e)
		writeJSON(w, statusFor(kind), errorBody{Error: string(kind), Message: e.Message})
		return
	}
	if errors.Is(err, store.ErrRecordTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "RecordTooLarge", Message: err.Error()})
		return
	}
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal", Message: "internal error"})
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: string(league.KindInvalidPayload), Message: "malformed request body: " + err.Error()})
		return false
	}
	return true
}

// idParam parses a numeric URL parameter, writing a 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: string(league.KindInvalidPayload), Message: "invalid id " + strconv.Quote(raw)})
		return 0, false
	}
	return id, true
}

// respond writes v as 200, or err mapped to its status.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, v)
}
