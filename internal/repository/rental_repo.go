package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gamerent/internal/model"
)

// RentalRepository rental repository interface.
//
// CreateWithGames and UpdateStatus carry the availability invariant: a game
// with available = false belongs to exactly one non-terminal rental. Both run
// as single transactions so the invariant holds after every commit.
type RentalRepository interface {
	// Create rental and claim its games in one transaction
	CreateWithGames(ctx context.Context, rental *model.Rental, gameIDs []uint64) error

	// Get rental by ID with games attached
	GetByID(ctx context.Context, id uint64) (*model.Rental, error)

	// List rentals, newest first, games attached
	List(ctx context.Context) ([]*model.Rental, error)

	// Update rental status, releasing games on a terminal status
	UpdateStatus(ctx context.Context, id uint64, status model.RentalStatus) (*model.Rental, error)
}

// rentalRepository rental repository implementation
type rentalRepository struct {
	db *gorm.DB
}

// NewRentalRepository creates a rental repository
func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

// CreateWithGames creates the rental and flips every referenced game to
// unavailable inside one transaction. The claim is a conditional update
// guarded by available = true; under concurrent submissions for the same game
// only one transaction can match the row, the other sees a short row count
// and aborts with ErrGamesUnavailable before anything is persisted.
func (r *rentalRepository) CreateWithGames(ctx context.Context, rental *model.Rental, gameIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&model.Game{}).
			Where("id IN ? AND available = ?", gameIDs, true).
			Update("available", false)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected != int64(len(gameIDs)) {
			return ErrGamesUnavailable
		}

		rental.Status = model.RentalStatusPending
		if err := tx.Omit("Games").Create(rental).Error; err != nil {
			return err
		}

		var games []*model.Game
		if err := tx.Where("id IN ?", gameIDs).Find(&games).Error; err != nil {
			return err
		}

		if err := tx.Model(rental).Omit("Games.*").Association("Games").Append(games); err != nil {
			return err
		}

		rental.Games = games
		return nil
	})
}

// GetByID gets a rental by ID
func (r *rentalRepository) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	var rental model.Rental
	err := r.db.WithContext(ctx).
		Preload("Games").
		Where("id = ?", id).
		First(&rental).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return &rental, nil
}

// List lists rentals, newest first
func (r *rentalRepository) List(ctx context.Context) ([]*model.Rental, error) {
	var rentals []*model.Rental
	err := r.db.WithContext(ctx).
		Preload("Games").
		Order("created_at DESC").
		Find(&rentals).Error
	return rentals, err
}

// UpdateStatus updates a rental's status. When the target status is terminal
// every referenced game is released in the same transaction, regardless of
// its current availability. No transition table is enforced here; see the
// handler-level status validation for what callers may request.
func (r *rentalRepository) UpdateStatus(ctx context.Context, id uint64, status model.RentalStatus) (*model.Rental, error) {
	var rental model.Rental

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Games").Where("id = ?", id).First(&rental).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRentalNotFound
			}
			return err
		}

		if err := tx.Model(&model.Rental{}).
			Where("id = ?", id).
			Update("status", status).Error; err != nil {
			return err
		}

		if status.IsTerminal() && len(rental.Games) > 0 {
			if err := tx.Model(&model.Game{}).
				Where("id IN ?", rental.GameIDs()).
				Update("available", true).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	rental.Status = status
	if status.IsTerminal() {
		for _, g := range rental.Games {
			g.Available = true
		}
	}
	return &rental, nil
}
