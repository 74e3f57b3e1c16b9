package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// Profile is the stored account behind an actor. RoleChanged is set when the
// role carried by the actor's token no longer matches the account, which
// means the caller has to log in again to act with the new role.
type Profile struct {
	domain.User
	RoleChanged bool `json:"role_changed"`
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) Profile(ctx context.Context, actor domain.Actor) (Profile, error) {
	if actor.IsGuest() {
		return Profile{}, domain.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	profile := Profile{User: user, RoleChanged: user.Role != actor.Role}
	if profile.RoleChanged {
		zap.L().Debug("token role is stale",
			zap.Uint("user_id", user.ID),
			zap.Stringer("token_role", actor.Role),
			zap.Stringer("stored_role", user.Role),
		)
	}

	return profile, nil
}
