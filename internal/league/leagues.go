package league

import (
	"context"

	"league-registry/internal/model"
	"league-registry/internal/store"
)

func (s *Service) CreateLeague(ctx context.Context, p model.CreateLeaguePayload) (model.League, error) {
	return run(ctx, s, "create_league", func(st store.Store) (model.League, error) {
		if err := s.authorize(ctx, st, ActionCreateLeague, nil); err != nil {
			return model.League{}, err
		}
		if blank(p.Name) {
			return model.League{}, invalidPayload("name is a required field")
		}
		if !p.SportType.Valid() {
			return model.League{}, invalidPayload("unknown sport type %q", p.SportType)
		}

		league := model.League{
			ID:          s.newLeagueID(),
			Name:        p.Name,
			Tournaments: []model.Tournament{},
			SportType:   p.SportType,
			CreatedBy:   string(CallerFrom(ctx)),
		}
		exists, err := st.Leagues().Contains(ctx, league.ID)
		if err != nil {
			return model.League{}, err
		}
		if exists {
			return model.League{}, conflict("league with id %s already exists", league.ID)
		}
		if _, _, err := st.Leagues().Insert(ctx, league.ID, league); err != nil {
			return model.League{}, err
		}
		s.committed(ctx, "create_league", league.ID)
		return league, nil
	})
}

// AddTournamentToLeague stores a snapshot of the tournament in the league.
func (s *Service) AddTournamentToLeague(ctx context.Context, p model.AddTournamentPayload) (model.League, error) {
	return run(ctx, s, "add_tournament_to_league", func(st store.Store) (model.League, error) {
		if err := s.authorize(ctx, st, ActionAddTournament, nil); err != nil {
			return model.League{}, err
		}
		league, err := s.league(ctx, st, p.LeagueID)
		if err != nil {
			return model.League{}, err
		}
		tournament, err := s.tournament(ctx, st, p.TournamentID)
		if err != nil {
			return model.League{}, err
		}
		if tournament.SportType != league.SportType {
			return model.League{}, conflict("tournament sport type %s does not match league sport type %s", tournament.SportType, league.SportType)
		}
		if league.HasTournament(tournament.ID) {
			return model.League{}, conflict("tournament %d is already part of this league", tournament.ID)
		}

		tournament.TeamIDs = append([]uint64{}, tournament.TeamIDs...)
		league.Tournaments = append(league.Tournaments, tournament)
		if _, _, err := st.Leagues().Insert(ctx, league.ID, league); err != nil {
			return model.League{}, err
		}
		s.committed(ctx, "add_tournament_to_league", league.ID)
		return league, nil
	})
}

func (s *Service) league(ctx context.Context, st store.Store, id string) (model.League, error) {
	league, ok, err := st.Leagues().Get(ctx, id)
	if err != nil {
		return model.League{}, err
	}
	if !ok {
		return model.League{}, notFound("league with id %s not found", id)
	}
	return league, nil
}

func (s *Service) GetLeague(ctx context.Context, id string) (model.League, error) {
	return run(ctx, s, "get_league", func(st store.Store) (model.League, error) {
		return s.league(ctx, st, id)
	})
}

func (s *Service) GetAllLeagues(ctx context.Context) ([]model.League, error) {
	return run(ctx, s, "get_all_leagues", func(st store.Store) ([]model.League, error) {
		return list(ctx, s, st.Leagues(), nil, "no leagues found")
	})
}
