package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-catalog/internal/domain"
	"game-catalog/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newUsers(t *testing.T, db *sql.DB) repository.UserRepository {
	t.Helper()
	users := NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))
	// Init is idempotent
	require.NoError(t, users.Init(context.Background()))
	return users
}

func newUser(email string) *domain.User {
	return &domain.User{Name: "Ana", Email: email, PasswordHash: "$2a$04$hash"}
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t, openTestDB(t))

	u := newUser("ana@x.io")
	id, err := users.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, domain.RoleUser, u.Role)

	byEmail, err := users.GetByEmail(ctx, "ana@x.io")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "$2a$04$hash", byEmail.PasswordHash)
	assert.Equal(t, domain.RoleUser, byEmail.Role)
	assert.Nil(t, byEmail.UpdatedAt)

	byID, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.io", byID.Email)

	_, err = users.GetByEmail(ctx, "ANA@x.io")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = users.GetByID(ctx, id+1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t, openTestDB(t))

	_, err := users.Create(ctx, newUser("ana@x.io"))
	require.NoError(t, err)
	_, err = users.Create(ctx, newUser("ana@x.io"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	other := newUser("bob@x.io")
	_, err = users.Create(ctx, other)
	require.NoError(t, err)
	other.Email = "ana@x.io"
	assert.ErrorIs(t, users.Update(ctx, other), repository.ErrDuplicateEmail)
}

func TestUserRepositoryRejectsEmptyHash(t *testing.T) {
	users := newUsers(t, openTestDB(t))
	_, err := users.Create(context.Background(), &domain.User{Name: "Ana", Email: "ana@x.io"})
	assert.Error(t, err)
}

func TestUserRepositoryUpdateListDelete(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t, openTestDB(t))

	a := newUser("ana@x.io")
	_, err := users.Create(ctx, a)
	require.NoError(t, err)
	b := newUser("bob@x.io")
	b.Role = domain.RoleAdministrator
	_, err = users.Create(ctx, b)
	require.NoError(t, err)

	a.Name = "Ana Maria"
	require.NoError(t, users.Update(ctx, a))
	require.NotNil(t, a.UpdatedAt)

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana Maria", list[0].Name)
	assert.NotNil(t, list[0].UpdatedAt)
	assert.Equal(t, domain.RoleAdministrator, list[1].Role)

	require.NoError(t, users.Delete(ctx, a.ID))
	assert.ErrorIs(t, users.Delete(ctx, a.ID), repository.ErrNotFound)
	assert.ErrorIs(t, users.Update(ctx, a), repository.ErrNotFound)
}

func TestUserRepositoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	users := NewUserRepository(db)

	t.Run("lookup failure is not not-found", func(t *testing.T) {
		mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("disk I/O error"))
		_, err := users.GetByEmail(ctx, "ana@x.io")
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("unique violation by message", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))
		_, err := users.Create(ctx, newUser("ana@x.io"))
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("foreign key violation by message", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(1)).
			WillReturnError(errors.New("constraint failed: FOREIGN KEY constraint failed (787)"))
		assert.ErrorIs(t, users.Delete(ctx, 1), repository.ErrReferenced)
	})

	t.Run("rows affected failure", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gone")))
		err := users.Delete(ctx, 2)
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list query failure", func(t *testing.T) {
		mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("database is locked"))
		_, err := users.List(ctx)
		assert.ErrorContains(t, err, "query users")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
