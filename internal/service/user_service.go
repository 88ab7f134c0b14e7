package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/repository"
)

// ProfilePatch is the allow-listed update structure for a user's own profile.
// Role, email and password are never patchable through it.
type ProfilePatch struct {
	Name    *string
	Phone   *string
	Address *string
	Bio     *string
	Skills  []string
}

// UserService handles user profile operations.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetProfile(ctx context.Context, actor auth.Actor) (*model.User, error)
	UpdateProfile(ctx context.Context, actor auth.Actor, patch ProfilePatch) (*model.User, error)
	UpdateUser(ctx context.Context, actor auth.Actor, id uuid.UUID, patch ProfilePatch) (*model.User, error)
	DeleteUser(ctx context.Context, actor auth.Actor, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetProfile returns the actor's own record.
func (s *userService) GetProfile(ctx context.Context, actor auth.Actor) (*model.User, error) {
	return s.GetUser(ctx, actor.ID)
}

// UpdateProfile applies an allow-listed patch to the actor's own record.
func (s *userService) UpdateProfile(ctx context.Context, actor auth.Actor, patch ProfilePatch) (*model.User, error) {
	return s.UpdateUser(ctx, actor, actor.ID, patch)
}

// UpdateUser applies an allow-listed patch to a user record. A user may patch
// themselves; admins may patch anyone. Role, email and password stay as-is.
func (s *userService) UpdateUser(ctx context.Context, actor auth.Actor, id uuid.UUID, patch ProfilePatch) (*model.User, error) {
	if id != actor.ID && !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Skills != nil {
		skills, err := skillsToJSON(patch.Skills)
		if err != nil {
			return nil, err
		}
		user.Skills = skills
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user record. A user may remove themselves; admins may
// remove anyone.
func (s *userService) DeleteUser(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if id != actor.ID && !actor.IsAdmin() {
		return errors.ErrForbidden
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
