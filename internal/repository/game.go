package repository

import (
	"context"

	"game-catalog/internal/domain"
)

// GameRepository exposes persistence operations for catalog entries.
type GameRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, game *domain.Game) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Game, error)
	List(ctx context.Context) ([]domain.Game, error)
	Update(ctx context.Context, id int64, changes domain.GameChanges) error
	UpdatePrice(ctx context.Context, id int64, price float64) error
	SetCover(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) error
}
