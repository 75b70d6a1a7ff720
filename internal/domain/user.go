package domain

import "time"

// Role is the access level granted to a user account.
type Role string

const (
	RoleUser          Role = "User"
	RoleAdministrator Role = "Administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdministrator
}

// User represents an account of the catalog, including its credential.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Identity is the authenticated subject attached to a request.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

// Identity derives the request identity of the user.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
