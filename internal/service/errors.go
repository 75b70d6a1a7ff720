package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// It is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when attempting to register with an email already in use.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidInput wraps request values the service refuses.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal hides storage and hashing failures from callers.
	ErrInternal = errors.New("internal error")

	ErrUserNotFound = errors.New("user not found")
	ErrGameNotFound = errors.New("game not found")
	// ErrCoverNotFound is returned when a game has no cover art uploaded.
	ErrCoverNotFound = errors.New("game has no cover")
	// ErrUserHasGames is returned when deleting a user that still owns catalog entries.
	ErrUserHasGames = errors.New("user still owns games")
)
