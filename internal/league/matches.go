package league

import (
	"context"

	"league-registry/internal/model"
	"league-registry/internal/store"
)

// ScheduleMatch stores a match holding snapshots of both teams as they are now.
// Later changes to either team do not alter the match.
func (s *Service) ScheduleMatch(ctx context.Context, p model.ScheduleMatchPayload) (model.Match, error) {
	return run(ctx, s, "schedule_match", func(st store.Store) (model.Match, error) {
		if err := s.authorize(ctx, st, ActionScheduleMatch, nil); err != nil {
			return model.Match{}, err
		}
		if blank(p.ScheduledDate) {
			return model.Match{}, invalidPayload("scheduled date is required in the format YYYY-MM-DD")
		}
		if !validDate(p.ScheduledDate) {
			return model.Match{}, invalidPayload("scheduled date %q is not in the format YYYY-MM-DD", p.ScheduledDate)
		}
		if !p.SportType.Valid() {
			return model.Match{}, invalidPayload("unknown sport type %q", p.SportType)
		}
		home, ok, err := st.Teams().Get(ctx, p.HomeTeamID)
		if err != nil {
			return model.Match{}, err
		}
		if !ok {
			return model.Match{}, notFound("home team not found")
		}
		away, ok, err := st.Teams().Get(ctx, p.AwayTeamID)
		if err != nil {
			return model.Match{}, err
		}
		if !ok {
			return model.Match{}, notFound("away team not found")
		}
		if p.HomeTeamID == p.AwayTeamID {
			return model.Match{}, conflict("home team and away team cannot be the same")
		}

		id, err := st.Sequence().Next(ctx)
		if err != nil {
			return model.Match{}, err
		}
		match := model.Match{
			ID:            id,
			SportType:     p.SportType,
			HomeTeam:      home.Snapshot(),
			AwayTeam:      away.Snapshot(),
			ScheduledDate: p.ScheduledDate,
		}
		if _, _, err := st.Matches().Insert(ctx, id, match); err != nil {
			return model.Match{}, err
		}
		s.committed(ctx, "schedule_match", id)
		return match, nil
	})
}

// SubmitMatchResult sets the result of a match. A result is written once.
func (s *Service) SubmitMatchResult(ctx context.Context, p model.MatchResultPayload) (model.Match, error) {
	return run(ctx, s, "submit_match_result", func(st store.Store) (model.Match, error) {
		if err := s.authorize(ctx, st, ActionSubmitResult, nil); err != nil {
			return model.Match{}, err
		}
		match, err := s.match(ctx, st, p.MatchID)
		if err != nil {
			return model.Match{}, err
		}
		if match.Result != nil {
			return model.Match{}, conflict("match result has already been submitted")
		}
		if s.requireWinner && !match.Involves(p.Result.WinnerTeamID) {
			return model.Match{}, invalidPayload("winner team %d did not play in match %d", p.Result.WinnerTeamID, match.ID)
		}

		result := p.Result
		match.Result = &result
		if _, _, err := st.Matches().Insert(ctx, match.ID, match); err != nil {
			return model.Match{}, err
		}
		s.committed(ctx, "submit_match_result", match.ID)
		return match, nil
	})
}

func (s *Service) match(ctx context.Context, st store.Store, id uint64) (model.Match, error) {
	match, ok, err := st.Matches().Get(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	if !ok {
		return model.Match{}, notFound("match with id %d not found", id)
	}
	return match, nil
}

func (s *Service) GetMatch(ctx context.Context, id uint64) (model.Match, error) {
	return run(ctx, s, "get_match", func(st store.Store) (model.Match, error) {
		return s.match(ctx, st, id)
	})
}

func (s *Service) GetAllMatches(ctx context.Context) ([]model.Match, error) {
	return run(ctx, s, "get_all_matches", func(st store.Store) ([]model.Match, error) {
		return list(ctx, s, st.Matches(), nil, "no matches found")
	})
}

func (s *Service) GetMatchesByTeam(ctx context.Context, teamID uint64) ([]model.Match, error) {
	return run(ctx, s, "get_matches_by_team", func(st store.Store) ([]model.Match, error) {
		return list(ctx, s, st.Matches(), func(m model.Match) bool {
			return m.Involves(teamID)
		}, "no matches found for this team")
	})
}

func (s *Service) GetMatchesBySportType(ctx context.Context, sport model.SportType) ([]model.Match, error) {
	return run(ctx, s, "get_matches_by_sport_type", func(st store.Store) ([]model.Match, error) {
		return list(ctx, s, st.Matches(), func(m model.Match) bool {
			return m.SportType == sport
		}, "no matches found for this sport type")
	})
}

func (s *Service) GetMatchesByDate(ctx context.Context, date string) ([]model.Match, error) {
	return run(ctx, s, "get_matches_by_date", func(st store.Store) ([]model.Match, error) {
		return list(ctx, s, st.Matches(), func(m model.Match) bool {
			return m.ScheduledDate == date
		}, "no matches found for this date")
	})
}
