package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league-registry/internal/league"
	"league-registry/internal/model"
	"league-registry/internal/store"
)

const testSecret = "test-secret"

func newTestHandler(t *testing.T, opts Options) http.Handler {
	t.Helper()
	st, err := store.NewMemoryStore()
	require.NoError(t, err)
	svc := league.NewService(st, league.Options{})
	return NewServer(svc, opts).Routes()
}

type client struct {
	t       *testing.T
	handler http.Handler
	caller  string
	token   string
}

func (c client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.caller != "" {
		req.Header.Set(callerHeader, c.caller)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthzIsPublic(t *testing.T) {
	h := newTestHandler(t, Options{JWTSecret: testSecret})
	rec := client{t: t, handler: h}.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingIdentityIsRejected(t *testing.T) {
	h := newTestHandler(t, Options{JWTSecret: testSecret})
	rec := client{t: t, handler: h}.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = client{t: t, handler: h, caller: "alice"}.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "X-Caller is ignored outside dev mode")

	rec = client{t: t, handler: h, token: "garbage"}.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrong, _, err := SignToken([]byte("other"), "alice", time.Hour)
	require.NoError(t, err)
	rec = client{t: t, handler: h, token: wrong}.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerTokenIdentifiesCaller(t *testing.T) {
	h := newTestHandler(t, Options{JWTSecret: testSecret})
	token, _, err := SignToken([]byte(testSecret), "alice", time.Hour)
	require.NoError(t, err)
	c := client{t: t, handler: h, token: token}

	rec := c.do(http.MethodPost, "/users", model.RegisterUserPayload{Name: "Alice", Email: "a@x.com", Address: "addr", Role: model.RolePlayer})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[model.User](t, rec)
	assert.Equal(t, "alice", user.Owner)

	rec = c.do(http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user, decode[model.User](t, rec))
}

func TestDevTokenEndpoint(t *testing.T) {
	h := newTestHandler(t, Options{JWTSecret: testSecret, DevMode: true})
	rec := client{t: t, handler: h}.do(http.MethodPost, "/dev/token", devTokenRequest{Subject: "bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[devTokenResponse](t, rec)
	assert.NotEmpty(t, resp.Token)

	rec = client{t: t, handler: h, token: resp.Token}.do(http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	prod := newTestHandler(t, Options{JWTSecret: testSecret})
	rec = client{t: t, handler: prod}.do(http.MethodPost, "/dev/token", devTokenRequest{Subject: "bob"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeagueWorkflowOverHTTP(t *testing.T) {
	h := newTestHandler(t, Options{DevMode: true})
	c := client{t: t, handler: h, caller: "admin"}

	rec := c.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "NotFound", body.Error)
	assert.Equal(t, "no users found", body.Message)

	rec = c.do(http.MethodPost, "/users", model.RegisterUserPayload{Name: "Pat", Email: "pat@x.com", Address: "addr", Role: model.RolePlayer})
	require.Equal(t, http.StatusCreated, rec.Code)
	pat := decode[model.User](t, rec)

	rec = c.do(http.MethodPost, "/users", model.RegisterUserPayload{Name: "Dup", Email: "pat@x.com", Address: "addr", Role: model.RolePlayer})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/users", model.RegisterUserPayload{Name: "Bad", Email: "bad", Address: "addr", Role: model.RolePlayer})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/users?name=PAT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pat, decode[model.User](t, rec))

	rec = c.do(http.MethodPut, "/users/"+uintPath(pat.ID), updateUserRequest{Name: "Patricia", Email: "pat@x.com", Address: "addr", Role: model.RolePlayer})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patricia", decode[model.User](t, rec).Name)

	rec = c.do(http.MethodPost, "/teams", model.CreateTeamPayload{Name: "Home", SportType: model.SportFootball})
	require.Equal(t, http.StatusCreated, rec.Code)
	home := decode[model.Team](t, rec)
	rec = c.do(http.MethodPost, "/teams", model.CreateTeamPayload{Name: "Away", SportType: model.SportFootball})
	require.Equal(t, http.StatusCreated, rec.Code)
	away := decode[model.Team](t, rec)

	rec = c.do(http.MethodPost, "/teams/"+uintPath(home.ID)+"/members", addMemberRequest{MemberID: pat.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{pat.ID}, decode[model.Team](t, rec).Members)

	rec = c.do(http.MethodPost, "/teams/"+uintPath(away.ID)+"/members", addMemberRequest{MemberID: pat.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/teams/"+uintPath(away.ID)+"/coaches", assignCoachRequest{CoachID: pat.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/matches", model.ScheduleMatchPayload{HomeTeamID: home.ID, AwayTeamID: home.ID, SportType: model.SportFootball, ScheduledDate: "2024-06-01"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/matches", model.ScheduleMatchPayload{HomeTeamID: home.ID, AwayTeamID: away.ID, SportType: model.SportFootball, ScheduledDate: "2024-06-01"})
	require.Equal(t, http.StatusCreated, rec.Code)
	match := decode[model.Match](t, rec)

	rec = c.do(http.MethodPost, "/matches/"+uintPath(match.ID)+"/result", model.MatchResult{WinnerTeamID: home.ID, ScoreTeamA: 3, ScoreTeamB: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodPost, "/matches/"+uintPath(match.ID)+"/result", model.MatchResult{WinnerTeamID: away.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodGet, "/matches?team="+uintPath(away.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Match](t, rec), 1)

	rec = c.do(http.MethodGet, "/matches?sport=Golf", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/matches?date=2024-06-01", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/matches?team=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/matches/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/matches/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefereeTournamentLeagueRoutes(t *testing.T) {
	h := newTestHandler(t, Options{DevMode: true})
	c := client{t: t, handler: h, caller: "official"}

	home := decode[model.Team](t, c.do(http.MethodPost, "/teams", model.CreateTeamPayload{Name: "A", SportType: model.SportTennis}))
	away := decode[model.Team](t, c.do(http.MethodPost, "/teams", model.CreateTeamPayload{Name: "B", SportType: model.SportTennis}))
	match := decode[model.Match](t, c.do(http.MethodPost, "/matches", model.ScheduleMatchPayload{HomeTeamID: home.ID, AwayTeamID: away.ID, SportType: model.SportTennis, ScheduledDate: "2024-07-01"}))

	rec := c.do(http.MethodPost, "/referees", model.RegisterRefereePayload{Name: "Ref", Email: "ref@x.com", Address: "addr"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ref := decode[model.Referee](t, rec)

	rec = c.do(http.MethodPost, "/referees/"+uintPath(ref.ID)+"/ratings", rateRefereeRequest{MatchID: match.ID, Rating: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 5.0, decode[model.Referee](t, rec).PerformanceRating, 0.0001)

	rec = c.do(http.MethodPost, "/tournaments", model.CreateTournamentPayload{Name: "Open", Structure: model.StructureRoundRobin, TeamIDs: []uint64{home.ID, away.ID}, SportType: model.SportTennis})
	require.Equal(t, http.StatusCreated, rec.Code)
	tournament := decode[model.Tournament](t, rec)

	rec = c.do(http.MethodPost, "/leagues", model.CreateLeaguePayload{Name: "Tour", SportType: model.SportTennis})
	require.Equal(t, http.StatusCreated, rec.Code)
	lg := decode[model.League](t, rec)
	assert.NotEmpty(t, lg.ID)

	rec = c.do(http.MethodPost, "/leagues/"+lg.ID+"/tournaments", addTournamentRequest{TournamentID: tournament.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[model.League](t, rec).Tournaments, 1)

	rec = c.do(http.MethodGet, "/leagues/"+lg.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, path := range []string{"/referees", "/tournaments", "/leagues", "/referees/" + uintPath(ref.ID), "/tournaments/" + uintPath(tournament.ID)} {
		rec = c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMalformedBody(t *testing.T) {
	h := newTestHandler(t, Options{DevMode: true})
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewBufferString("{not json"))
	req.Header.Set(callerHeader, "x")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func uintPath(id uint64) string {
	return strconv.FormatUint(id, 10)
}
