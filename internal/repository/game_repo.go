package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gamerent/internal/model"
)

// GameFilter narrows catalog listings
type GameFilter struct {
	Platform      model.Platform
	AvailableOnly bool
}

// GameRepository catalog repository interface
type GameRepository interface {
	// Create game
	Create(ctx context.Context, game *model.Game) error

	// Get game by ID
	GetByID(ctx context.Context, id uint64) (*model.Game, error)

	// Update game
	Update(ctx context.Context, game *model.Game) error

	// Delete game
	Delete(ctx context.Context, id uint64) error

	// List games, title ascending
	List(ctx context.Context, filter GameFilter) ([]*model.Game, error)

	// List games matching the given IDs that are currently available
	ListAvailableByIDs(ctx context.Context, ids []uint64) ([]*model.Game, error)
}

// gameRepository catalog repository implementation
type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a game repository
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

// Create creates a game
func (r *gameRepository) Create(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

// GetByID gets a game by ID
func (r *gameRepository) GetByID(ctx context.Context, id uint64) (*model.Game, error) {
	var game model.Game
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// Update updates a game
func (r *gameRepository) Update(ctx context.Context, game *model.Game) error {
	result := r.db.WithContext(ctx).
		Model(&model.Game{}).
		Where("id = ?", game.ID).
		Updates(map[string]interface{}{
			"title":         game.Title,
			"description":   game.Description,
			"image_url":     game.ImageURL,
			"price_per_day": game.PricePerDay,
			"platform":      game.Platform,
			"available":     game.Available,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// Delete deletes a game
func (r *gameRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Game{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// List lists games matching the filter, title ascending
func (r *gameRepository) List(ctx context.Context, filter GameFilter) ([]*model.Game, error) {
	var games []*model.Game

	db := r.db.WithContext(ctx).Model(&model.Game{})

	if filter.Platform != "" {
		db = db.Where("platform = ?", filter.Platform)
	}
	if filter.AvailableOnly {
		db = db.Where("available = ?", true)
	}

	err := db.Order("title ASC").Find(&games).Error
	return games, err
}

// ListAvailableByIDs lists the subset of the given games that is available
func (r *gameRepository) ListAvailableByIDs(ctx context.Context, ids []uint64) ([]*model.Game, error) {
	var games []*model.Game
	err := r.db.WithContext(ctx).
		Where("id IN ? AND available = ?", ids, true).
		Find(&games).Error
	return games, err
}
