// Package league enforces the cross-collection rules of the registry on top
// of a store.Store. Every operation runs to completion under one lock, and a
// rejected operation leaves the store unchanged.
package league

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"league-registry/internal/model"
	"league-registry/internal/store"
)

// OwnerPolicy controls the owner of a user record after an update.
type OwnerPolicy int

const (
	// OwnerRestamp sets the owner to the caller of the update.
	OwnerRestamp OwnerPolicy = iota
	// OwnerPreserve keeps the owner recorded at registration.
	OwnerPreserve
)

// ListPolicy controls list queries that match nothing.
type ListPolicy int

const (
	// EmptyListError reports an empty result as NotFound.
	EmptyListError ListPolicy = iota
	// EmptyListOK returns an empty slice.
	EmptyListOK
)

type Options struct {
	OwnerPolicy OwnerPolicy
	ListPolicy  ListPolicy
	// Authorizer defaults to AllowAll.
	Authorizer Authorizer
	// RequireWinnerInMatch rejects results whose winner is neither team.
	RequireWinnerInMatch bool
	Logger               hclog.Logger
	// NewLeagueID defaults to uuid.NewString.
	NewLeagueID func() string
}

type Service struct {
	mu    sync.Mutex
	store store.Store

	ownerPolicy   OwnerPolicy
	listPolicy    ListPolicy
	authorizer    Authorizer
	requireWinner bool
	newLeagueID   func() string
	logger        hclog.Logger
}

func NewService(st store.Store, opts Options) *Service {
	s := &Service{
		store:         st,
		ownerPolicy:   opts.OwnerPolicy,
		listPolicy:    opts.ListPolicy,
		authorizer:    opts.Authorizer,
		requireWinner: opts.RequireWinnerInMatch,
		newLeagueID:   opts.NewLeagueID,
		logger:        opts.Logger,
	}
	if s.authorizer == nil {
		s.authorizer = AllowAll
	}
	if s.newLeagueID == nil {
		s.newLeagueID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}
	return s
}

// run executes fn under the service lock, inside one store transaction that
// excludes other processes sharing the store. Nothing fn wrote survives an error.
func run[T any](ctx context.Context, s *Service, op string, fn func(st store.Store) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out T
	err := s.store.Atomically(ctx, func(st store.Store) error {
		var err error
		out, err = fn(st)
		return err
	})
	if err != nil {
		s.logger.Debug("operation rejected", "op", op, "caller", CallerFrom(ctx), "kind", KindOf(err), "error", err)
		var zero T
		return zero, err
	}
	return out, nil
}

func (s *Service) committed(ctx context.Context, op string, id any) {
	s.logger.Info("operation committed", "op", op, "id", id, "caller", CallerFrom(ctx))
}

// authorize resolves the calling user and consults the Authorizer.
func (s *Service) authorize(ctx context.Context, st store.Store, action Action, target *model.User) error {
	caller, found, err := s.userByOwner(ctx, st, CallerFrom(ctx))
	if err != nil {
		return err
	}
	var callerUser *model.User
	if found {
		callerUser = &caller
	}
	return s.authorizer.Authorize(ctx, action, callerUser, target)
}
