// Package auth holds the credential and session primitives of the catalog:
// password hashing, the signed session token, and the role checks applied at
// the request boundary.
package auth

import "errors"

var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrPasswordTooLong is returned for passwords beyond what bcrypt accepts.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

	// ErrTokenMalformed is returned for tokens that cannot be parsed or carry unusable claims.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenBadSignature is returned when the token signature does not verify.
	ErrTokenBadSignature = errors.New("token signature invalid")
	// ErrTokenExpired is returned when the token expiry is not in the future.
	ErrTokenExpired = errors.New("token expired")

	// ErrUnauthenticated is returned when an operation requires an identity and none is attached.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the attached identity lacks the required role.
	ErrForbidden = errors.New("forbidden")
)
