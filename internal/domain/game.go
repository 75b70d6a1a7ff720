package domain

import "time"

// Game is a catalog entry.
type Game struct {
	ID            int64
	Title         string
	Description   string
	Price         float64
	ReleaseDate   time.Time
	Genre         string
	CoverKey      string
	CreatedByID   int64
	CreatedByName string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// GameChanges carries a partial update; nil fields are left untouched.
type GameChanges struct {
	Title       *string
	Description *string
	Price       *float64
	ReleaseDate *time.Time
	Genre       *string
}
