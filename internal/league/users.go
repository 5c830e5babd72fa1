package league

import (
	"context"

	"league-registry/internal/model"
	"league-registry/internal/store"
)

func (s *Service) RegisterUser(ctx context.Context, p model.RegisterUserPayload) (model.User, error) {
	return run(ctx, s, "register_user", func(st store.Store) (model.User, error) {
		if err := s.authorize(ctx, st, ActionRegisterUser, nil); err != nil {
			return model.User{}, err
		}
		if blank(p.Name) || blank(p.Email) || blank(p.Address) {
			return model.User{}, invalidPayload("name, email, and address are required fields")
		}
		if !validEmail(p.Email) {
			return model.User{}, invalidPayload("invalid email format")
		}
		if !p.Role.Valid() {
			return model.User{}, invalidPayload("unknown role %q", p.Role)
		}
		if err := s.ensureEmailFree(ctx, st, p.Email, nil); err != nil {
			return model.User{}, err
		}

		id, err := st.Sequence().Next(ctx)
		if err != nil {
			return model.User{}, err
		}
		user := model.User{
			ID:      id,
			Owner:   string(CallerFrom(ctx)),
			Name:    p.Name,
			Email:   p.Email,
			Address: p.Address,
			Role:    p.Role,
		}
		if _, _, err := st.Users().Insert(ctx, id, user); err != nil {
			return model.User{}, err
		}
		s.committed(ctx, "register_user", id)
		return user, nil
	})
}

func (s *Service) UpdateUser(ctx context.Context, p model.UpdateUserPayload) (model.User, error) {
	return run(ctx, s, "update_user", func(st store.Store) (model.User, error) {
		current, ok, err := st.Users().Get(ctx, p.ID)
		if err != nil {
			return model.User{}, err
		}
		if !ok {
			return model.User{}, notFound("user not found")
		}
		if err := s.authorize(ctx, st, ActionUpdateUser, &current); err != nil {
			return model.User{}, err
		}
		if !validEmail(p.Email) {
			return model.User{}, invalidPayload("invalid email format")
		}
		if !p.Role.Valid() {
			return model.User{}, invalidPayload("unknown role %q", p.Role)
		}
		if err := s.ensureEmailFree(ctx, st, p.Email, &p.ID); err != nil {
			return model.User{}, err
		}

		owner := string(CallerFrom(ctx))
		if s.ownerPolicy == OwnerPreserve {
			owner = current.Owner
		}
		user := model.User{
			ID:      p.ID,
			Owner:   owner,
			Name:    p.Name,
			Email:   p.Email,
			Address: p.Address,
			Role:    p.Role,
		}
		if _, _, err := st.Users().Insert(ctx, p.ID, user); err != nil {
			return model.User{}, err
		}
		s.committed(ctx, "update_user", p.ID)
		return user, nil
	})
}

// ensureEmailFree fails when another user, other than except, holds email.
func (s *Service) ensureEmailFree(ctx context.Context, st store.Store, email string, except *uint64) error {
	_, taken, err := find(ctx, st.Users(), func(u model.User) bool {
		if except != nil && u.ID == *except {
			return false
		}
		return model.SameEmail(u.Email, email)
	})
	if err != nil {
		return err
	}
	if taken {
		return conflict("user with this email already exists")
	}
	return nil
}

func (s *Service) userByOwner(ctx context.Context, st store.Store, owner Principal) (model.User, bool, error) {
	return find(ctx, st.Users(), func(u model.User) bool {
		return u.Owner == string(owner)
	})
}

func (s *Service) GetUser(ctx context.Context, id uint64) (model.User, error) {
	return run(ctx, s, "get_user", func(st store.Store) (model.User, error) {
		user, ok, err := st.Users().Get(ctx, id)
		if err != nil {
			return model.User{}, err
		}
		if !ok {
			return model.User{}, notFound("user with id %d not found", id)
		}
		return user, nil
	})
}

// GetUserByOwner returns the first user registered by the caller in ctx.
func (s *Service) GetUserByOwner(ctx context.Context) (model.User, error) {
	return run(ctx, s, "get_user_by_owner", func(st store.Store) (model.User, error) {
		caller := CallerFrom(ctx)
		user, ok, err := s.userByOwner(ctx, st, caller)
		if err != nil {
			return model.User{}, err
		}
		if !ok {
			return model.User{}, notFound("user not found for caller %s", caller)
		}
		return user, nil
	})
}

// GetUserByName matches names ignoring case.
func (s *Service) GetUserByName(ctx context.Context, name string) (model.User, error) {
	return run(ctx, s, "get_user_by_name", func(st store.Store) (model.User, error) {
		user, ok, err := find(ctx, st.Users(), func(u model.User) bool {
			return model.SameName(u.Name, name)
		})
		if err != nil {
			return model.User{}, err
		}
		if !ok {
			return model.User{}, notFound("user with name %s not found", name)
		}
		return user, nil
	})
}

func (s *Service) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return run(ctx, s, "get_all_users", func(st store.Store) ([]model.User, error) {
		return list(ctx, s, st.Users(), nil, "no users found")
	})
}
