package league

import (
	"context"

	"league-registry/internal/model"
	"league-registry/internal/store"
)

const minTournamentTeams = 2

func (s *Service) CreateTournament(ctx context.Context, p model.CreateTournamentPayload) (model.Tournament, error) {
	return run(ctx, s, "create_tournament", func(st store.Store) (model.Tournament, error) {
		if err := s.authorize(ctx, st, ActionCreateTournament, nil); err != nil {
			return model.Tournament{}, err
		}
		if blank(p.Name) {
			return model.Tournament{}, invalidPayload("name is a required field")
		}
		if !p.Structure.Valid() {
			return model.Tournament{}, invalidPayload("unknown tournament structure %q", p.Structure)
		}
		if !p.SportType.Valid() {
			return model.Tournament{}, invalidPayload("unknown sport type %q", p.SportType)
		}
		teamIDs := make([]uint64, 0, len(p.TeamIDs))
		seen := make(map[uint64]bool, len(p.TeamIDs))
		for _, id := range p.TeamIDs {
			if seen[id] {
				return model.Tournament{}, invalidPayload("team %d is listed more than once", id)
			}
			seen[id] = true
			teamIDs = append(teamIDs, id)
		}
		if len(teamIDs) < minTournamentTeams {
			return model.Tournament{}, invalidPayload("a tournament needs at least %d teams", minTournamentTeams)
		}
		for _, id := range teamIDs {
			if _, err := s.team(ctx, st, id); err != nil {
				return model.Tournament{}, err
			}
		}

		id, err := st.Sequence().Next(ctx)
		if err != nil {
			return model.Tournament{}, err
		}
		tournament := model.Tournament{
			ID:        id,
			Name:      p.Name,
			Structure: p.Structure,
			TeamIDs:   teamIDs,
			SportType: p.SportType,
		}
		if _, _, err := st.Tournaments().Insert(ctx, id, tournament); err != nil {
			return model.Tournament{}, err
		}
		s.committed(ctx, "create_tournament", id)
		return tournament, nil
	})
}

func (s *Service) tournament(ctx context.Context, st store.Store, id uint64) (model.Tournament, error) {
	tournament, ok, err := st.Tournaments().Get(ctx, id)
	if err != nil {
		return model.Tournament{}, err
	}
	if !ok {
		return model.Tournament{}, notFound("tournament with id %d not found", id)
	}
	return tournament, nil
}

func (s *Service) GetTournament(ctx context.Context, id uint64) (model.Tournament, error) {
	return run(ctx, s, "get_tournament", func(st store.Store) (model.Tournament, error) {
		return s.tournament(ctx, st, id)
	})
}

func (s *Service) GetAllTournaments(ctx context.Context) ([]model.Tournament, error) {
	return run(ctx, s, "get_all_tournaments", func(st store.Store) ([]model.Tournament, error) {
		return list(ctx, s, st.Tournaments(), nil, "no tournaments found")
	})
}
