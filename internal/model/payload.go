package model

type RegisterUserPayload struct {
	Name    string   `json:"name" yaml:"name"`
	Email   string   `json:"email" yaml:"email"`
	Address string   `json:"address" yaml:"address"`
	Role    UserRole `json:"role" yaml:"role"`
}

type UpdateUserPayload struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Address string   `json:"address"`
	Role    UserRole `json:"role"`
}

type CreateTeamPayload struct {
	Name      string    `json:"name" yaml:"name"`
	SportType SportType `json:"sport_type" yaml:"sport_type"`
}

type AddMemberPayload struct {
	TeamID   uint64 `json:"team_id"`
	MemberID uint64 `json:"member_id"`
}

type AssignCoachPayload struct {
	TeamID  uint64 `json:"team_id"`
	CoachID uint64 `json:"coach_id"`
}

type ScheduleMatchPayload struct {
	HomeTeamID    uint64    `json:"home_team_id"`
	AwayTeamID    uint64    `json:"away_team_id"`
	SportType     SportType `json:"sport_type"`
	ScheduledDate string    `json:"scheduled_date"`
}

type MatchResultPayload struct {
	MatchID uint64      `json:"match_id"`
	Result  MatchResult `json:"result"`
}

type RegisterRefereePayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type RateRefereePayload struct {
	RefereeID uint64  `json:"referee_id"`
	MatchID   uint64  `json:"match_id"`
	Rating    float32 `json:"rating"`
}

type CreateTournamentPayload struct {
	Name      string              `json:"name"`
	Structure TournamentStructure `json:"structure"`
	TeamIDs   []uint64            `json:"team_ids"`
	SportType SportType           `json:"sport_type"`
}

type CreateLeaguePayload struct {
	Name      string    `json:"name"`
	SportType SportType `json:"sport_type"`
}

type AddTournamentPayload struct {
	LeagueID     string `json:"league_id"`
	TournamentID uint64 `json:"tournament_id"`
}
