package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"league-registry/internal/league"
	"league-registry/internal/model"
)

// Fixtures describes records to create through the service. Teams and matches
// refer to users and teams by name.
type Fixtures struct {
	// Caller is the principal used for records without an owner.
	Caller  string          `yaml:"caller"`
	Users   []userFixture   `yaml:"users"`
	Teams   []teamFixture   `yaml:"teams"`
	Matches []matchFixture  `yaml:"matches"`
	Results []resultFixture `yaml:"results"`
}

type userFixture struct {
	model.RegisterUserPayload `yaml:",inline"`
	Owner                     string `yaml:"owner"`
}

type teamFixture struct {
	model.CreateTeamPayload `yaml:",inline"`
	Members                 []string `yaml:"members"`
	Coaches                 []string `yaml:"coaches"`
}

type matchFixture struct {
	Home          string          `yaml:"home"`
	Away          string          `yaml:"away"`
	SportType     model.SportType `yaml:"sport_type"`
	ScheduledDate string          `yaml:"scheduled_date"`
}

type resultFixture struct {
	Home          string `yaml:"home"`
	Away          string `yaml:"away"`
	ScheduledDate string `yaml:"scheduled_date"`
	Winner        string `yaml:"winner"`
	ScoreHome     uint32 `yaml:"score_home"`
	ScoreAway     uint32 `yaml:"score_away"`
	Notes         string `yaml:"notes"`
}

// ImportReport counts the records created by ApplyFixtures.
type ImportReport struct {
	Users, Teams, Members, Coaches, Matches, Results int
}

func LoadFixtures(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

// ApplyFixtures creates every fixture record through svc. A rejected record is
// reported and skipped; records that depend on it fail to resolve.
func ApplyFixtures(ctx context.Context, svc *league.Service, fx Fixtures) (ImportReport, error) {
	var (
		report   ImportReport
		failures *multierror.Error
		users    = map[string]uint64{}
		teams    = map[string]uint64{}
		matches  = map[string]uint64{}
	)
	caller := league.Principal(fx.Caller)
	as := func(owner string) context.Context {
		if owner != "" {
			return league.WithCaller(ctx, league.Principal(owner))
		}
		return league.WithCaller(ctx, caller)
	}
	fail := func(format string, args ...any) {
		failures = multierror.Append(failures, fmt.Errorf(format, args...))
	}

	for _, u := range fx.Users {
		user, err := svc.RegisterUser(as(u.Owner), u.RegisterUserPayload)
		if err != nil {
			fail("user %q: %w", u.Name, err)
			continue
		}
		users[u.Name] = user.ID
		report.Users++
	}

	for _, t := range fx.Teams {
		team, err := svc.CreateTeam(as(""), t.CreateTeamPayload)
		if err != nil {
			fail("team %q: %w", t.Name, err)
			continue
		}
		teams[t.Name] = team.ID
		report.Teams++
		for _, name := range t.Members {
			id, ok := users[name]
			if !ok {
				fail("team %q: unknown member %q", t.Name, name)
				continue
			}
			if _, err := svc.AddMemberToTeam(as(""), model.AddMemberPayload{TeamID: team.ID, MemberID: id}); err != nil {
				fail("team %q member %q: %w", t.Name, name, err)
				continue
			}
			report.Members++
		}
		for _, name := range t.Coaches {
			id, ok := users[name]
			if !ok {
				fail("team %q: unknown coach %q", t.Name, name)
				continue
			}
			if _, err := svc.AssignCoach(as(""), model.AssignCoachPayload{TeamID: team.ID, CoachID: id}); err != nil {
				fail("team %q coach %q: %w", t.Name, name, err)
				continue
			}
			report.Coaches++
		}
	}

	for _, m := range fx.Matches {
		key := matchKey(m.Home, m.Away, m.ScheduledDate)
		home, okHome := teams[m.Home]
		away, okAway := teams[m.Away]
		if !okHome || !okAway {
			fail("match %s: unknown team", key)
			continue
		}
		match, err := svc.ScheduleMatch(as(""), model.ScheduleMatchPayload{
			HomeTeamID:    home,
			AwayTeamID:    away,
			SportType:     m.SportType,
			ScheduledDate: m.ScheduledDate,
		})
		if err != nil {
			fail("match %s: %w", key, err)
			continue
		}
		matches[key] = match.ID
		report.Matches++
	}

	for _, r := range fx.Results {
		key := matchKey(r.Home, r.Away, r.ScheduledDate)
		matchID, ok := matches[key]
		if !ok {
			fail("result %s: unknown match", key)
			continue
		}
		winner, ok := teams[r.Winner]
		if !ok {
			fail("result %s: unknown winner %q", key, r.Winner)
			continue
		}
		_, err := svc.SubmitMatchResult(as(""), model.MatchResultPayload{
			MatchID: matchID,
			Result: model.MatchResult{
				WinnerTeamID: winner,
				ScoreTeamA:   r.ScoreHome,
				ScoreTeamB:   r.ScoreAway,
				Notes:        r.Notes,
			},
		})
		if err != nil {
			fail("result %s: %w", key, err)
			continue
		}
		report.Results++
	}

	return report, failures.ErrorOrNil()
}

func matchKey(home, away, date string) string {
	return fmt.Sprintf("%s vs %s on %s", home, away, date)
}
