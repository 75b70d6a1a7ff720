package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"game-catalog/internal/domain"
	"game-catalog/internal/repository"
	"game-catalog/internal/storage"
)

// CreateGameInput is the payload of a new catalog entry.
type CreateGameInput struct {
	Title       string
	Description string
	Price       float64
	ReleaseDate time.Time
	Genre       string
}

// GameService coordinates catalog operations backed by the game repository
// and, when configured, object storage for cover art.
type GameService interface {
	CreateGame(ctx context.Context, creatorID int64, in CreateGameInput) (*domain.Game, error)
	GetGame(ctx context.Context, id int64) (*domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	UpdateGame(ctx context.Context, id int64, changes domain.GameChanges) error
	UpdatePrice(ctx context.Context, id int64, price float64) error
	DeleteGame(ctx context.Context, id int64) error
	UploadCover(ctx context.Context, id int64, contentType string, body io.Reader) (string, error)
	CoverURL(ctx context.Context, id int64, expires time.Duration) (string, error)
}

// CoverOptions locates cover art in object storage.
type CoverOptions struct {
	Bucket    string
	KeyPrefix string
}

type gameService struct {
	games  repository.GameRepository
	store  storage.Service
	covers CoverOptions
	logger *logrus.Logger
}

// NewGameService builds the catalog service. store may be nil, in which case
// cover operations fail with storage.ErrNotConfigured.
func NewGameService(games repository.GameRepository, store storage.Service, covers CoverOptions, logger *logrus.Logger) GameService {
	if logger == nil {
		logger = logrus.New()
	}
	return &gameService{
		games:  games,
		store:  store,
		covers: covers,
		logger: logger,
	}
}

func (s *gameService) CreateGame(ctx context.Context, creatorID int64, in CreateGameInput) (*domain.Game, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	game := &domain.Game{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		ReleaseDate: in.ReleaseDate,
		Genre:       in.Genre,
		CreatedByID: creatorID,
	}
	if _, err := s.games.Create(ctx, game); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"game_id": game.ID, "created_by": creatorID}).Info("game created")
	return s.GetGame(ctx, game.ID)
}

func (s *gameService) GetGame(ctx context.Context, id int64) (*domain.Game, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, translateGameErr(err)
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context) ([]domain.Game, error) {
	return s.games.List(ctx)
}

func (s *gameService) UpdateGame(ctx context.Context, id int64, changes domain.GameChanges) error {
	if changes.Price != nil && *changes.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	return translateGameErr(s.games.Update(ctx, id, changes))
}

func (s *gameService) UpdatePrice(ctx context.Context, id int64, price float64) error {
	if price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	return translateGameErr(s.games.UpdatePrice(ctx, id, price))
}

func (s *gameService) DeleteGame(ctx context.Context, id int64) error {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return translateGameErr(err)
	}
	if err := s.games.Delete(ctx, id); err != nil {
		return translateGameErr(err)
	}
	if game.CoverKey != "" && s.store != nil {
		if err := s.store.DeletePrefix(ctx, s.covers.Bucket, game.CoverKey); err != nil {
			s.logger.WithError(err).WithField("game_id", id).Warn("delete cover art")
		}
	}
	return nil
}

func (s *gameService) UploadCover(ctx context.Context, id int64, contentType string, body io.Reader) (string, error) {
	if s.store == nil || s.covers.Bucket == "" {
		return "", storage.ErrNotConfigured
	}
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return "", translateGameErr(err)
	}

	key := path.Join(strings.Trim(s.covers.KeyPrefix, "/"), fmt.Sprintf("game-%d", id), uuid.NewString())
	if err := s.store.PutObject(ctx, s.covers.Bucket, key, contentType, body); err != nil {
		return "", err
	}
	if err := s.games.SetCover(ctx, id, key); err != nil {
		return "", translateGameErr(err)
	}
	if game.CoverKey != "" {
		if err := s.store.DeletePrefix(ctx, s.covers.Bucket, game.CoverKey); err != nil {
			s.logger.WithError(err).WithField("game_id", id).Warn("delete previous cover art")
		}
	}
	return key, nil
}

func (s *gameService) CoverURL(ctx context.Context, id int64, expires time.Duration) (string, error) {
	if s.store == nil || s.covers.Bucket == "" {
		return "", storage.ErrNotConfigured
	}
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return "", translateGameErr(err)
	}
	if game.CoverKey == "" {
		return "", ErrCoverNotFound
	}
	return s.store.GetObjectURL(ctx, s.covers.Bucket, game.CoverKey, expires)
}

func translateGameErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrGameNotFound
	}
	return err
}
