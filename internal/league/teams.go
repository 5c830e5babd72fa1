package league

import (
	"context"

	"league-registry/internal/model"
	"league-registry/internal/store"
)

func (s *Service) CreateTeam(ctx context.Context, p model.CreateTeamPayload) (model.Team, error) {
	return run(ctx, s, "create_team", func(st store.Store) (model.Team, error) {
		if err := s.authorize(ctx, st, ActionCreateTeam, nil); err != nil {
			return model.Team{}, err
		}
		if blank(p.Name) {
			return model.Team{}, invalidPayload("name is a required field")
		}
		if !p.SportType.Valid() {
			return model.Team{}, invalidPayload("unknown sport type %q", p.SportType)
		}

		id, err := st.Sequence().Next(ctx)
		if err != nil {
			return model.Team{}, err
		}
		team := model.Team{
			ID:        id,
			Name:      p.Name,
			SportType: p.SportType,
			Members:   []uint64{},
			Coaches:   []uint64{},
		}
		if _, _, err := st.Teams().Insert(ctx, id, team); err != nil {
			return model.Team{}, err
		}
		s.committed(ctx, "create_team", id)
		return team, nil
	})
}

func (s *Service) GetTeam(ctx context.Context, id uint64) (model.Team, error) {
	return run(ctx, s, "get_team", func(st store.Store) (model.Team, error) {
		return s.team(ctx, st, id)
	})
}

func (s *Service) GetAllTeams(ctx context.Context) ([]model.Team, error) {
	return run(ctx, s, "get_all_teams", func(st store.Store) ([]model.Team, error) {
		return list(ctx, s, st.Teams(), nil, "no teams found")
	})
}

func (s *Service) team(ctx context.Context, st store.Store, id uint64) (model.Team, error) {
	team, ok, err := st.Teams().Get(ctx, id)
	if err != nil {
		return model.Team{}, err
	}
	if !ok {
		return model.Team{}, notFound("team with id %d not found", id)
	}
	return team, nil
}

// teamRoster describes one of the two assignment lists of a team.
type teamRoster struct {
	action Action
	op     string
	label  string
	role   model.UserRole
	has    func(model.Team, uint64) bool
	add    func(*model.Team, uint64)
}

var (
	memberRoster = teamRoster{
		action: ActionAddMember,
		op:     "add_member_to_team",
		label:  "member",
		role:   model.RolePlayer,
		has:    model.Team.HasMember,
		add:    func(t *model.Team, id uint64) { t.Members = append(t.Members, id) },
	}
	coachRoster = teamRoster{
		action: ActionAssignCoach,
		op:     "assign_coach",
		label:  "coach",
		role:   model.RoleCoach,
		has:    model.Team.HasCoach,
		add:    func(t *model.Team, id uint64) { t.Coaches = append(t.Coaches, id) },
	}
)

// AddMemberToTeam appends a Player to a team. A player belongs to at most one team.
func (s *Service) AddMemberToTeam(ctx context.Context, p model.AddMemberPayload) (model.Team, error) {
	return run(ctx, s, memberRoster.op, func(st store.Store) (model.Team, error) {
		return s.assign(ctx, st, memberRoster, p.TeamID, p.MemberID)
	})
}

// AssignCoach appends a Coach to a team. A coach belongs to at most one team.
func (s *Service) AssignCoach(ctx context.Context, p model.AssignCoachPayload) (model.Team, error) {
	return run(ctx, s, coachRoster.op, func(st store.Store) (model.Team, error) {
		return s.assign(ctx, st, coachRoster, p.TeamID, p.CoachID)
	})
}

func (s *Service) assign(ctx context.Context, st store.Store, r teamRoster, teamID, userID uint64) (model.Team, error) {
	if err := s.authorize(ctx, st, r.action, nil); err != nil {
		return model.Team{}, err
	}
	team, err := s.team(ctx, st, teamID)
	if err != nil {
		return model.Team{}, err
	}
	user, ok, err := st.Users().Get(ctx, userID)
	if err != nil {
		return model.Team{}, err
	}
	if !ok {
		return model.Team{}, notFound("%s with id %d not found", r.label, userID)
	}
	if !model.HasRole(user, r.role) {
		return model.Team{}, conflict("%s must have the %s role", r.label, r.role)
	}
	_, assigned, err := find(ctx, st.Teams(), func(t model.Team) bool {
		return r.has(t, userID)
	})
	if err != nil {
		return model.Team{}, err
	}
	if assigned {
		return model.Team{}, conflict("%s is already part of a team", r.label)
	}

	r.add(&team, userID)
	if _, _, err := st.Teams().Insert(ctx, team.ID, team); err != nil {
		return model.Team{}, err
	}
	s.committed(ctx, r.op, team.ID)
	return team, nil
}
