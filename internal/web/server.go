package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"league-registry/internal/league"
)

type Server struct {
	service   *league.Service
	jwtSecret []byte
	devMode   bool
	logger    hclog.Logger
}

type Options struct {
	// JWTSecret verifies HS256 bearer tokens.
	JWTSecret string
	// DevMode trusts the X-Caller header and enables /dev routes.
	DevMode bool
	Logger  hclog.Logger
}

func NewServer(service *league.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		service:   service,
		jwtSecret: []byte(opts.JWTSecret),
		devMode:   opts.DevMode,
		logger:    logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(NewRequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.WithCaller)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/dev/token", s.handleDevToken)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleUserRegister)
		r.Get("/", s.handleUserList)
		r.Get("/me", s.handleUserMe)
		r.Get("/{userID}", s.handleUserShow)
		r.Put("/{userID}", s.handleUserUpdate)
	})
	r.Route("/teams", func(r chi.Router) {
		r.Post("/", s.handleTeamCreate)
		r.Get("/", s.handleTeamList)
		r.Get("/{teamID}", s.handleTeamShow)
		r.Post("/{teamID}/members", s.handleTeamMemberAdd)
		r.Post("/{teamID}/coaches", s.handleTeamCoachAssign)
	})
	r.Route("/matches", func(r chi.Router) {
		r.Post("/", s.handleMatchSchedule)
		r.Get("/", s.handleMatchList)
		r.Get("/{matchID}", s.handleMatchShow)
		r.Post("/{matchID}/result", s.handleMatchResult)
	})
	r.Route("/referees", func(r chi.Router) {
		r.Post("/", s.handleRefereeRegister)
		r.Get("/", s.handleRefereeList)
		r.Get("/{refereeID}", s.handleRefereeShow)
		r.Post("/{refereeID}/ratings", s.handleRefereeRate)
	})
	r.Route("/tournaments", func(r chi.Router) {
		r.Post("/", s.handleTournamentCreate)
		r.Get("/", s.handleTournamentList)
		r.Get("/{tournamentID}", s.handleTournamentShow)
	})
	r.Route("/leagues", func(r chi.Router) {
		r.Post("/", s.handleLeagueCreate)
		r.Get("/", s.handleLeagueList)
		r.Get("/{leagueID}", s.handleLeagueShow)
		r.Post("/{leagueID}/tournaments", s.handleLeagueTournamentAdd)
	})

	return r
}
