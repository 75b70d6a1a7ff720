package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"game-catalog/internal/auth"
	"game-catalog/internal/domain"
	"game-catalog/internal/repository"
	"game-catalog/internal/repository/sqlite"
)

var errStoreDown = errors.New("disk I/O error")

func openStore(t *testing.T) (repository.UserRepository, repository.GameRepository) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	games := sqlite.NewGameRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, games.Init(context.Background()))
	return users, games
}

func newCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	c, err := auth.NewTokenCodec(auth.TokenConfig{
		Secret:   []byte("service-test-secret"),
		Issuer:   "game-catalog",
		Audience: "game-catalog-clients",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return c
}

// countingHasher records how many verifications ran.
type countingHasher struct {
	auth.PasswordHasher
	verifies atomic.Int64
}

func (h *countingHasher) Verify(ctx context.Context, password, hash string) bool {
	h.verifies.Add(1)
	return h.PasswordHasher.Verify(ctx, password, hash)
}

type authFixture struct {
	users  repository.UserRepository
	games  repository.GameRepository
	hasher *countingHasher
	tokens *auth.TokenCodec
	svc    AuthService
	logger *logrus.Logger
	hook   *test.Hook
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users, games := openStore(t)
	return newAuthFixtureWith(t, users, games)
}

func newAuthFixtureWith(t *testing.T, users repository.UserRepository, games repository.GameRepository) *authFixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	hasher := &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost, 4)}
	tokens := newCodec(t)

	svc, err := NewAuthService(context.Background(), users, hasher, tokens, logger)
	require.NoError(t, err)

	return &authFixture{
		users:  users,
		games:  games,
		hasher: hasher,
		tokens: tokens,
		svc:    svc,
		logger: logger,
		hook:   hook,
	}
}

// flakyUsers fails lookups by email once err is set.
type flakyUsers struct {
	repository.UserRepository
	mu  sync.Mutex
	err error
}

func (f *flakyUsers) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *flakyUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.UserRepository.GetByEmail(ctx, email)
}

// memStorage is an in-memory object store.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) PutObject(_ context.Context, bucket, key, contentType string, body io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	m.types[bucket+"/"+key] = contentType
	return nil
}

func (m *memStorage) DeletePrefix(_ context.Context, bucket, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.objects {
		if strings.HasPrefix(k, bucket+"/"+prefix) {
			delete(m.objects, k)
			delete(m.types, k)
		}
	}
	return nil
}

func (m *memStorage) GetObjectURL(_ context.Context, bucket, key string, expires time.Duration) (string, error) {
	return "https://objects.test/" + bucket + "/" + key + "?expires=" + expires.String(), nil
}

func (m *memStorage) has(bucket, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok
}

