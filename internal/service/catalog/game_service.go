package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"gamerent/internal/model"
	"gamerent/internal/repository"
	"gamerent/pkg/log"
)

// CreateGameRequest create game request
type CreateGameRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl" binding:"omitempty,url"`
	PricePerDay float64 `json:"pricePerDay" binding:"required,gt=0"`
	Platform    string  `json:"platform" binding:"required"`
}

// UpdateGameRequest update game request
type UpdateGameRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl" binding:"omitempty,url"`
	PricePerDay float64 `json:"pricePerDay" binding:"required,gt=0"`
	Platform    string  `json:"platform" binding:"required"`
	Available   bool    `json:"available"`
}

// ListFilter narrows catalog listings
type ListFilter struct {
	Platform      string
	AvailableOnly bool
}

// GameService catalog service interface
type GameService interface {
	// Create game
	Create(ctx context.Context, req *CreateGameRequest) (*model.Game, error)

	// Get game by ID
	Get(ctx context.Context, id uint64) (*model.Game, error)

	// Update game
	Update(ctx context.Context, id uint64, req *UpdateGameRequest) (*model.Game, error)

	// Delete game
	Delete(ctx context.Context, id uint64) error

	// List games, title ascending
	List(ctx context.Context, filter ListFilter) ([]*model.Game, error)

	// Invalidate drops every cached catalog entry. Called after any
	// write that flips availability outside this service.
	Invalidate()
}

type gameService struct {
	repo  repository.GameRepository
	cache *bigcache.BigCache
}

// NewGameService creates the catalog service. A nil ttl disables caching.
func NewGameService(repo repository.GameRepository, cacheTTL time.Duration, cacheShards int) (GameService, error) {
	s := &gameService{repo: repo}

	if cacheTTL > 0 {
		cfg := bigcache.DefaultConfig(cacheTTL)
		if cacheShards > 0 {
			cfg.Shards = cacheShards
		}
		cache, err := bigcache.New(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("init catalog cache: %w", err)
		}
		s.cache = cache
	}

	return s, nil
}

func (s *gameService) Create(ctx context.Context, req *CreateGameRequest) (*model.Game, error) {
	platform := model.Platform(req.Platform)
	if !platform.IsValid() {
		return nil, model.ErrInvalidPlatform
	}

	game := &model.Game{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PricePerDay: req.PricePerDay,
		Platform:    platform,
		Available:   true,
	}

	if err := s.repo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	s.Invalidate()
	log.WithFields(map[string]interface{}{
		"game_id": game.ID,
		"title":   game.Title,
	}).Info("Game added to catalog")

	return game, nil
}

func (s *gameService) Get(ctx context.Context, id uint64) (*model.Game, error) {
	key := detailKey(id)

	if game, ok := s.cached(key); ok {
		return game[0], nil
	}

	game, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.store(key, []*model.Game{game})
	return game, nil
}

func (s *gameService) Update(ctx context.Context, id uint64, req *UpdateGameRequest) (*model.Game, error) {
	platform := model.Platform(req.Platform)
	if !platform.IsValid() {
		return nil, model.ErrInvalidPlatform
	}

	game := &model.Game{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PricePerDay: req.PricePerDay,
		Platform:    platform,
		Available:   req.Available,
	}

	if err := s.repo.Update(ctx, game); err != nil {
		return nil, err
	}

	s.Invalidate()
	return s.repo.GetByID(ctx, id)
}

func (s *gameService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.Invalidate()
	log.WithField("game_id", id).Info("Game removed from catalog")
	return nil
}

func (s *gameService) List(ctx context.Context, filter ListFilter) ([]*model.Game, error) {
	key := listKey(filter)

	if games, ok := s.cached(key); ok {
		return games, nil
	}

	games, err := s.repo.List(ctx, repository.GameFilter{
		Platform:      model.Platform(filter.Platform),
		AvailableOnly: filter.AvailableOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	s.store(key, games)
	return games, nil
}

func (s *gameService) Invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Reset(); err != nil {
		log.WithError(err).Warn("catalog cache reset failed")
	}
}

func (s *gameService) cached(key string) ([]*model.Game, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var games []*model.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, false
	}
	return games, true
}

func (s *gameService) store(key string, games []*model.Game) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(games)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, data); err != nil {
		log.WithError(err).Debug("catalog cache set failed")
	}
}

func detailKey(id uint64) string {
	return fmt.Sprintf("games:detail:%d", id)
}

func listKey(filter ListFilter) string {
	return fmt.Sprintf("games:list:%s:%t", filter.Platform, filter.AvailableOnly)
}
