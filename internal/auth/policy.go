package auth

import (
	"context"

	"game-catalog/internal/domain"
)

// RequireAuthenticated returns the identity attached to ctx or ErrUnauthenticated.
func RequireAuthenticated(ctx context.Context) (domain.Identity, error) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return domain.Identity{}, ErrUnauthenticated
	}
	return id, nil
}

// RequireRole fails with ErrForbidden unless the identity holds exactly role.
// There is no role hierarchy: an Administrator does not satisfy a User check.
func RequireRole(id domain.Identity, role domain.Role) error {
	if id.Role != role {
		return ErrForbidden
	}
	return nil
}
