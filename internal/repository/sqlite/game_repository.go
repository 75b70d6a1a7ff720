package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"game-catalog/internal/domain"
	"game-catalog/internal/repository"
)

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	price REAL NOT NULL,
	release_date DATETIME NOT NULL,
	genre TEXT NOT NULL,
	cover_key TEXT NOT NULL DEFAULT '',
	created_by_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NULL,
	FOREIGN KEY(created_by_id) REFERENCES users(id) ON DELETE RESTRICT
);
CREATE INDEX IF NOT EXISTS idx_games_created_by_id ON games(created_by_id);
`

const selectGame = `
SELECT g.id, g.title, g.description, g.price, g.release_date, g.genre, g.cover_key,
	g.created_by_id, u.name, g.created_at, g.updated_at
FROM games g
LEFT JOIN users u ON u.id = g.created_by_id`

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &GameRepository{db: db}
}

// Init requires the users table to exist already.
func (r *GameRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGamesTable); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	return nil
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) (int64, error) {
	game.CreatedAt = time.Now().UTC()
	game.UpdatedAt = nil

	res, err := r.db.ExecContext(ctx, `
INSERT INTO games (title, description, price, release_date, genre, cover_key, created_by_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		game.Title,
		game.Description,
		game.Price,
		game.ReleaseDate.UTC(),
		game.Genre,
		game.CoverKey,
		game.CreatedByID,
		game.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("insert game: creator %d: %w", game.CreatedByID, repository.ErrNotFound)
		}
		return 0, fmt.Errorf("insert game: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("game last insert id: %w", err)
	}
	game.ID = id
	return id, nil
}

func (r *GameRepository) Get(ctx context.Context, id int64) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx, selectGame+`
WHERE g.id=?`, id)
	return scanGame(row)
}

func (r *GameRepository) List(ctx context.Context) ([]domain.Game, error) {
	rows, err := r.db.QueryContext(ctx, selectGame+`
ORDER BY g.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

func (r *GameRepository) Update(ctx context.Context, id int64, changes domain.GameChanges) error {
	var (
		sets []string
		args []any
	)
	if changes.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, *changes.Title)
	}
	if changes.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *changes.Description)
	}
	if changes.Price != nil {
		sets = append(sets, "price=?")
		args = append(args, *changes.Price)
	}
	if changes.ReleaseDate != nil {
		sets = append(sets, "release_date=?")
		args = append(args, changes.ReleaseDate.UTC())
	}
	if changes.Genre != nil {
		sets = append(sets, "genre=?")
		args = append(args, *changes.Genre)
	}
	sets = append(sets, "updated_at=?")
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf(`UPDATE games SET %s WHERE id=?`, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return expectOneRow(res, "update game")
}

func (r *GameRepository) UpdatePrice(ctx context.Context, id int64, price float64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE games
SET price=?, updated_at=?
WHERE id=?`,
		price,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update game price: %w", err)
	}
	return expectOneRow(res, "update game price")
}

func (r *GameRepository) SetCover(ctx context.Context, id int64, key string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE games
SET cover_key=?, updated_at=?
WHERE id=?`,
		key,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set game cover: %w", err)
	}
	return expectOneRow(res, "set game cover")
}

func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return expectOneRow(res, "delete game")
}

func scanGame(scanner interface {
	Scan(dest ...any) error
}) (*domain.Game, error) {
	var (
		game        domain.Game
		createdName sql.NullString
		updatedAt   sql.NullTime
	)
	if err := scanner.Scan(
		&game.ID,
		&game.Title,
		&game.Description,
		&game.Price,
		&game.ReleaseDate,
		&game.Genre,
		&game.CoverKey,
		&game.CreatedByID,
		&createdName,
		&game.CreatedAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	game.CreatedByName = createdName.String
	if updatedAt.Valid {
		t := updatedAt.Time
		game.UpdatedAt = &t
	}
	return &game, nil
}
