package league

import (
	"context"
	"math"

	"league-registry/internal/model"
	"league-registry/internal/store"
)

const maxRefereeRating = 5

func (s *Service) RegisterReferee(ctx context.Context, p model.RegisterRefereePayload) (model.Referee, error) {
	return run(ctx, s, "register_referee", func(st store.Store) (model.Referee, error) {
		if err := s.authorize(ctx, st, ActionRegisterReferee, nil); err != nil {
			return model.Referee{}, err
		}
		if blank(p.Name) || blank(p.Email) || blank(p.Address) {
			return model.Referee{}, invalidPayload("name, email, and address are required fields")
		}
		if !validEmail(p.Email) {
			return model.Referee{}, invalidPayload("invalid email format")
		}
		_, taken, err := find(ctx, st.Referees(), func(r model.Referee) bool {
			return model.SameEmail(r.Email, p.Email)
		})
		if err != nil {
			return model.Referee{}, err
		}
		if taken {
			return model.Referee{}, conflict("referee with this email already exists")
		}

		id, err := st.Sequence().Next(ctx)
		if err != nil {
			return model.Referee{}, err
		}
		referee := model.Referee{
			ID:                id,
			Owner:             string(CallerFrom(ctx)),
			Name:              p.Name,
			Email:             p.Email,
			Address:           p.Address,
			MatchesOfficiated: []uint64{},
		}
		if _, _, err := st.Referees().Insert(ctx, id, referee); err != nil {
			return model.Referee{}, err
		}
		s.committed(ctx, "register_referee", id)
		return referee, nil
	})
}

// RateReferee records a rating for a match the referee officiated. Each match
// counts once per referee.
func (s *Service) RateReferee(ctx context.Context, p model.RateRefereePayload) (model.Referee, error) {
	return run(ctx, s, "rate_referee", func(st store.Store) (model.Referee, error) {
		if err := s.authorize(ctx, st, ActionRateReferee, nil); err != nil {
			return model.Referee{}, err
		}
		if math.IsNaN(float64(p.Rating)) || p.Rating < 0 || p.Rating > maxRefereeRating {
			return model.Referee{}, invalidPayload("rating must be between 0 and %d", maxRefereeRating)
		}
		referee, err := s.referee(ctx, st, p.RefereeID)
		if err != nil {
			return model.Referee{}, err
		}
		if _, err := s.match(ctx, st, p.MatchID); err != nil {
			return model.Referee{}, err
		}
		for _, id := range referee.MatchesOfficiated {
			if id == p.MatchID {
				return model.Referee{}, conflict("match %d has already been rated for this referee", p.MatchID)
			}
		}

		referee.MatchesOfficiated = append(referee.MatchesOfficiated, p.MatchID)
		referee.TotalRating += p.Rating
		referee.TotalMatches++
		referee.PerformanceRating = referee.TotalRating / float32(referee.TotalMatches)
		if _, _, err := st.Referees().Insert(ctx, referee.ID, referee); err != nil {
			return model.Referee{}, err
		}
		s.committed(ctx, "rate_referee", referee.ID)
		return referee, nil
	})
}

func (s *Service) referee(ctx context.Context, st store.Store, id uint64) (model.Referee, error) {
	referee, ok, err := st.Referees().Get(ctx, id)
	if err != nil {
		return model.Referee{}, err
	}
	if !ok {
		return model.Referee{}, notFound("referee with id %d not found", id)
	}
	return referee, nil
}

func (s *Service) GetReferee(ctx context.Context, id uint64) (model.Referee, error) {
	return run(ctx, s, "get_referee", func(st store.Store) (model.Referee, error) {
		return s.referee(ctx, st, id)
	})
}

func (s *Service) GetAllReferees(ctx context.Context) ([]model.Referee, error) {
	return run(ctx, s, "get_all_referees", func(st store.Store) ([]model.Referee, error) {
		return list(ctx, s, st.Referees(), nil, "no referees found")
	})
}
