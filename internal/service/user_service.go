package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"game-catalog/internal/auth"
	"game-catalog/internal/domain"
	"game-catalog/internal/repository"
)

// UpdateUserInput carries an account update. Nil fields keep their value, as
// does an empty password.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService describes account management operations. Returned users never
// carry the password hash.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, in RegisterInput) (*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) error
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users    repository.UserRepository
	hasher   auth.PasswordHasher
	registry AuthService
	logger   *logrus.Logger
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher, registry AuthService, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:    users,
		hasher:   hasher,
		registry: registry,
		logger:   logger,
	}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(users))
	for i := range users {
		out = append(out, *sanitizeUser(&users[i]))
	}
	return out, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Create goes through the registration path, so the account always gets the User role.
func (s *userService) Create(ctx context.Context, in RegisterInput) (*domain.User, error) {
	id, err := s.registry.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id.UserID)
}

func (s *userService) Update(ctx context.Context, id int64, in UpdateUserInput) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be blank", ErrInvalidInput)
		}
		user.Name = name
	}
	if in.Email != nil && *in.Email != user.Email {
		if strings.TrimSpace(*in.Email) == "" {
			return fmt.Errorf("%w: email cannot be blank", ErrInvalidInput)
		}
		if _, err := s.users.GetByEmail(ctx, *in.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		user.Email = *in.Email
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(ctx, *in.Password)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooLong) {
				return fmt.Errorf("%w: password is longer than %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
			}
			return err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		}
		return err
	}
	s.logger.WithField("user_id", id).Info("user updated")
	return nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrUserHasGames
		}
		return err
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}
