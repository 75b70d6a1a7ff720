package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"game-catalog/internal/auth"
	"game-catalog/internal/domain"
	"game-catalog/internal/repository"
)

// dummyPassword feeds the verification run for unknown emails.
const dummyPassword = "timing-equalizer"

// RegisterInput is the self-registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by a successful authentication.
type AuthResult struct {
	Identity  domain.Identity
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService verifies credentials and issues session tokens.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (domain.Identity, error)
	EnsureAdministrator(ctx context.Context, name, email, password string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenCodec
	logger *logrus.Logger
	now    func() time.Time

	dummyHash string
}

// NewAuthService wires the authenticator. It computes a throwaway hash up
// front so that unknown-email logins cost the same as wrong-password ones.
func NewAuthService(
	ctx context.Context,
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenCodec,
	logger *logrus.Logger,
) (AuthService, error) {
	if logger == nil {
		logger = logrus.New()
	}
	dummy, err := hasher.Hash(ctx, dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.WithError(err).Error("credential lookup failed")
			return nil, ErrInternal
		}
		s.hasher.Verify(ctx, password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	id := user.Identity()
	token, expiresAt, err := s.tokens.Issue(id, s.now())
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("issue token failed")
		return nil, ErrInternal
	}

	return &AuthResult{
		Identity:  id,
		User:      sanitizeUser(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (domain.Identity, error) {
	user, err := s.create(ctx, in.Name, in.Email, in.Password, domain.RoleUser)
	if err != nil {
		return domain.Identity{}, err
	}
	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user.Identity(), nil
}

// EnsureAdministrator creates an Administrator account when email is not yet
// registered. Existing accounts are returned unchanged.
func (s *authService) EnsureAdministrator(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdministrator {
			s.logger.WithField("user_id", existing.ID).Warn("bootstrap administrator email belongs to a non-administrator account")
		}
		return sanitizeUser(existing), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup administrator: %w", err)
	}

	user, err := s.create(ctx, name, email, password, domain.RoleAdministrator)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("administrator account created")
	return sanitizeUser(user), nil
}

// create runs the advisory uniqueness check, hashes and inserts. The storage
// UNIQUE constraint is what actually settles concurrent registrations.
func (s *authService) create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.WithError(err).Error("credential lookup failed")
		return nil, ErrInternal
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmptyPassword):
			return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
		case errors.Is(err, auth.ErrPasswordTooLong):
			return nil, fmt.Errorf("%w: password is longer than %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
		}
		s.logger.WithError(err).Error("hash password failed")
		return nil, ErrInternal
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.WithError(err).Error("insert user failed")
		return nil, ErrInternal
	}
	return user, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
