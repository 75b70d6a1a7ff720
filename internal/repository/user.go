package repository

import (
	"context"
	"errors"

	"game-catalog/internal/domain"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the storage uniqueness constraint on email is violated.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrReferenced is returned when a record cannot be removed because other records point to it.
	ErrReferenced = errors.New("record is still referenced")
)

// UserRepository defines persistence operations for User entities. It is the
// credential store of the authentication flow.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
