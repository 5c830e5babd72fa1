package model

import (
	"strings"
)

type UserRole string
type SportType string
type TournamentStructure string

const (
	RolePlayer         UserRole = "Player"
	RoleCoach          UserRole = "Coach"
	RoleAdministrator  UserRole = "Administrator"
	RoleLeagueOfficial UserRole = "LeagueOfficial"

	SportFootball    SportType = "Football"
	SportBasketball  SportType = "Basketball"
	SportVolleyball  SportType = "Volleyball"
	SportTennis      SportType = "Tennis"
	SportCricket     SportType = "Cricket"
	SportRugby       SportType = "Rugby"
	SportHockey      SportType = "Hockey"
	SportGolf        SportType = "Golf"
	SportBadminton   SportType = "Badminton"
	SportTableTennis SportType = "TableTennis"

	StructureRoundRobin TournamentStructure = "RoundRobin"
	StructureKnockout   TournamentStructure = "Knockout"
)

// DateLayout is the form of Match.ScheduledDate.
const DateLayout = "2006-01-02"

var userRoles = []UserRole{RolePlayer, RoleCoach, RoleAdministrator, RoleLeagueOfficial}

var sportTypes = []SportType{
	SportFootball, SportBasketball, SportVolleyball, SportTennis, SportCricket,
	SportRugby, SportHockey, SportGolf, SportBadminton, SportTableTennis,
}

func (r UserRole) Valid() bool {
	for _, known := range userRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (s SportType) Valid() bool {
	for _, known := range sportTypes {
		if s == known {
			return true
		}
	}
	return false
}

func (t TournamentStructure) Valid() bool {
	return t == StructureRoundRobin || t == StructureKnockout
}

type User struct {
	ID      uint64   `json:"id"`
	Owner   string   `json:"owner"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Address string   `json:"address"`
	Role    UserRole `json:"role"`
}

// HasRole is the single capability predicate used by every role check.
func HasRole(u User, role UserRole) bool {
	return u.Role == role
}

type Team struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	SportType SportType `json:"sport_type"`
	Members   []uint64  `json:"members"`
	Coaches   []uint64  `json:"coaches"`
}

// Snapshot returns a copy of the team that shares no slices with t.
func (t Team) Snapshot() Team {
	t.Members = append([]uint64{}, t.Members...)
	t.Coaches = append([]uint64{}, t.Coaches...)
	return t
}

func (t Team) HasMember(userID uint64) bool {
	return containsID(t.Members, userID)
}

func (t Team) HasCoach(userID uint64) bool {
	return containsID(t.Coaches, userID)
}

type MatchResult struct {
	WinnerTeamID uint64 `json:"winner_team_id"`
	ScoreTeamA   uint32 `json:"score_team_a"`
	ScoreTeamB   uint32 `json:"score_team_b"`
	Notes        string `json:"notes"`
}

// Match embeds by-value snapshots of both teams taken when the match was scheduled.
type Match struct {
	ID            uint64       `json:"id"`
	SportType     SportType    `json:"sport_type"`
	HomeTeam      Team         `json:"home_team"`
	AwayTeam      Team         `json:"away_team"`
	ScheduledDate string       `json:"scheduled_date"`
	Result        *MatchResult `json:"result,omitempty"`
}

func (m Match) Involves(teamID uint64) bool {
	return m.HomeTeam.ID == teamID || m.AwayTeam.ID == teamID
}

type Referee struct {
	ID                uint64   `json:"id"`
	Owner             string   `json:"owner"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Address           string   `json:"address"`
	MatchesOfficiated []uint64 `json:"matches_officiated"`
	PerformanceRating float32  `json:"performance_rating"`
	TotalRating       float32  `json:"total_rating"`
	TotalMatches      uint32   `json:"total_matches"`
}

type Tournament struct {
	ID        uint64              `json:"id"`
	Name      string              `json:"name"`
	Structure TournamentStructure `json:"structure"`
	TeamIDs   []uint64            `json:"team_ids"`
	SportType SportType           `json:"sport_type"`
}

// League is keyed by a string id and holds tournament snapshots.
type League struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Tournaments []Tournament `json:"tournaments"`
	SportType   SportType    `json:"sport_type"`
	CreatedBy   string       `json:"created_by"`
}

func (l League) HasTournament(id uint64) bool {
	for _, t := range l.Tournaments {
		if t.ID == id {
			return true
		}
	}
	return false
}

// SameEmail reports whether two addresses are identical. Comparison is exact and case-sensitive.
func SameEmail(a, b string) bool {
	return a == b
}

// SameName compares user names ignoring case.
func SameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

func containsID(ids []uint64, needle uint64) bool {
	for _, id := range ids {
		if id == needle {
			return true
		}
	}
	return false
}
