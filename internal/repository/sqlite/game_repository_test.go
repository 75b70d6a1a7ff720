package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-catalog/internal/domain"
	"game-catalog/internal/repository"
)

type catalogStore struct {
	users repository.UserRepository
	games repository.GameRepository
}

func newCatalogStore(t *testing.T) catalogStore {
	t.Helper()
	db := openTestDB(t)
	s := catalogStore{users: newUsers(t, db), games: NewGameRepository(db)}
	require.NoError(t, s.games.Init(context.Background()))
	return s
}

func newGame(creator int64) *domain.Game {
	return &domain.Game{
		Title:       "Star Courier",
		Description: "Deliver parcels across a collapsing galaxy.",
		Price:       14.5,
		ReleaseDate: time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC),
		Genre:       "Adventure",
		CreatedByID: creator,
	}
}

func TestGameRepositoryCreateGetList(t *testing.T) {
	ctx := context.Background()
	s := newCatalogStore(t)

	owner := newUser("owner@x.io")
	owner.Name = "Owner"
	_, err := s.users.Create(ctx, owner)
	require.NoError(t, err)

	g := newGame(owner.ID)
	id, err := s.games.Create(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)

	got, err := s.games.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Star Courier", got.Title)
	assert.Equal(t, 14.5, got.Price)
	assert.True(t, got.ReleaseDate.Equal(g.ReleaseDate))
	assert.Equal(t, "Owner", got.CreatedByName)
	assert.Empty(t, got.CoverKey)
	assert.Nil(t, got.UpdatedAt)

	_, err = s.games.Create(ctx, newGame(owner.ID))
	require.NoError(t, err)
	list, err := s.games.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = s.games.Get(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGameRepositoryUnknownCreator(t *testing.T) {
	s := newCatalogStore(t)
	_, err := s.games.Create(context.Background(), newGame(77))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGameRepositoryUpdates(t *testing.T) {
	ctx := context.Background()
	s := newCatalogStore(t)
	owner := newUser("owner@x.io")
	_, err := s.users.Create(ctx, owner)
	require.NoError(t, err)
	g := newGame(owner.ID)
	_, err = s.games.Create(ctx, g)
	require.NoError(t, err)

	genre := "Roguelike"
	require.NoError(t, s.games.Update(ctx, g.ID, domain.GameChanges{Genre: &genre}))
	require.NoError(t, s.games.UpdatePrice(ctx, g.ID, 4.99))
	require.NoError(t, s.games.SetCover(ctx, g.ID, "covers/game-1/abc"))

	got, err := s.games.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roguelike", got.Genre)
	assert.Equal(t, "Star Courier", got.Title)
	assert.Equal(t, 4.99, got.Price)
	assert.Equal(t, "covers/game-1/abc", got.CoverKey)
	require.NotNil(t, got.UpdatedAt)

	// an empty change set still touches updated_at and reports missing rows
	assert.NoError(t, s.games.Update(ctx, g.ID, domain.GameChanges{}))
	assert.ErrorIs(t, s.games.Update(ctx, 999, domain.GameChanges{Genre: &genre}), repository.ErrNotFound)
	assert.ErrorIs(t, s.games.UpdatePrice(ctx, 999, 1), repository.ErrNotFound)
	assert.ErrorIs(t, s.games.SetCover(ctx, 999, "k"), repository.ErrNotFound)
}

func TestGameRepositoryDeleteAndRestrict(t *testing.T) {
	ctx := context.Background()
	s := newCatalogStore(t)
	owner := newUser("owner@x.io")
	_, err := s.users.Create(ctx, owner)
	require.NoError(t, err)
	g := newGame(owner.ID)
	_, err = s.games.Create(ctx, g)
	require.NoError(t, err)

	assert.ErrorIs(t, s.users.Delete(ctx, owner.ID), repository.ErrReferenced)

	require.NoError(t, s.games.Delete(ctx, g.ID))
	assert.ErrorIs(t, s.games.Delete(ctx, g.ID), repository.ErrNotFound)
	assert.NoError(t, s.users.Delete(ctx, owner.ID))
}

func TestGameRepositoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	games := NewGameRepository(db)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS games`).WillReturnError(errors.New("readonly database"))
	assert.ErrorContains(t, games.Init(ctx), "create games table")

	mock.ExpectExec(`INSERT INTO games`).
		WillReturnError(errors.New("constraint failed: FOREIGN KEY constraint failed (787)"))
	_, err = games.Create(ctx, newGame(5))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectQuery(`FROM games`).WillReturnError(errors.New("disk I/O error"))
	_, err = games.Get(ctx, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectExec(`UPDATE games`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, games.UpdatePrice(ctx, 1, 3), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
