package league

import (
	"context"

	"league-registry/internal/model"
)

// Action names a mutating operation for authorization.
type Action string

const (
	ActionRegisterUser     Action = "register_user"
	ActionUpdateUser       Action = "update_user"
	ActionCreateTeam       Action = "create_team"
	ActionAddMember        Action = "add_member_to_team"
	ActionAssignCoach      Action = "assign_coach"
	ActionScheduleMatch    Action = "schedule_match"
	ActionSubmitResult     Action = "submit_match_result"
	ActionRegisterReferee  Action = "register_referee"
	ActionRateReferee      Action = "rate_referee"
	ActionCreateTournament Action = "create_tournament"
	ActionCreateLeague     Action = "create_league"
	ActionAddTournament    Action = "add_tournament_to_league"
)

// Authorizer decides whether the caller in ctx may perform action. caller is
// the user registered by the calling principal, or nil when there is none.
// It is consulted before any validation reads.
type Authorizer interface {
	Authorize(ctx context.Context, action Action, caller *model.User, target *model.User) error
}

type AuthorizerFunc func(ctx context.Context, action Action, caller *model.User, target *model.User) error

func (f AuthorizerFunc) Authorize(ctx context.Context, action Action, caller *model.User, target *model.User) error {
	return f(ctx, action, caller, target)
}

// AllowAll permits every mutation.
var AllowAll Authorizer = AuthorizerFunc(func(context.Context, Action, *model.User, *model.User) error {
	return nil
})

// OwnerOnly requires an identified caller to register a user and the record's
// owner to update one. Every other mutation requires a registered caller.
var OwnerOnly Authorizer = AuthorizerFunc(func(ctx context.Context, action Action, caller *model.User, target *model.User) error {
	principal := CallerFrom(ctx)
	switch action {
	case ActionRegisterUser:
		if principal == Anonymous {
			return unauthorized("anonymous callers cannot register users")
		}
		return nil
	case ActionUpdateUser:
		if target != nil && target.Owner != string(principal) {
			return unauthorized("only the owner can update this user")
		}
		return nil
	}
	if caller == nil {
		return unauthorized("caller is not a registered user")
	}
	return nil
})
