package rental

import (
	"context"
	"errors"
	"fmt"

	"gamerent/internal/model"
	"gamerent/internal/monitor"
	"gamerent/internal/realtime"
	"gamerent/internal/repository"
	"gamerent/pkg/log"
	"gamerent/pkg/snowflake"
	"gamerent/pkg/utils"
)

// SubmitRequest rental submission request
type SubmitRequest struct {
	Name     string   `json:"name" binding:"required,max=100"`
	Phone    string   `json:"phone" binding:"required,phone"`
	GameIDs  []uint64 `json:"gameIds" binding:"required,min=1"`
	Duration int      `json:"duration" binding:"required,min=1,max=30"`
}

// UpdateStatusRequest status update request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Broadcaster fans an event out to connected dashboard clients.
// Satisfied by *realtime.Hub.
type Broadcaster interface {
	Broadcast(event realtime.Event)
}

// CacheInvalidator drops cached catalog reads after availability flips.
// Satisfied by the catalog service.
type CacheInvalidator interface {
	Invalidate()
}

// RentalService coordinates rental orders with game availability.
//
// Submit and UpdateStatus delegate the transactional work to the repository;
// events go out only after the transaction commits, so subscribers never see
// an order that was rolled back.
type RentalService interface {
	// Submit creates a rental order, claiming every requested game
	Submit(ctx context.Context, req *SubmitRequest) (*model.Rental, error)

	// Get rental by ID
	Get(ctx context.Context, id uint64) (*model.Rental, error)

	// List rentals, newest first
	List(ctx context.Context) ([]*model.Rental, error)

	// UpdateStatus moves a rental to a new status, releasing its games
	// when the status is terminal
	UpdateStatus(ctx context.Context, id uint64, status model.RentalStatus) (*model.Rental, error)
}

type rentalService struct {
	repo        repository.RentalRepository
	idGen       *snowflake.IDGenerator
	broadcaster Broadcaster
	cache       CacheInvalidator
}

// NewRentalService creates the rental service. broadcaster and cache may be
// nil; notification and cache invalidation are then skipped.
func NewRentalService(
	repo repository.RentalRepository,
	idGen *snowflake.IDGenerator,
	broadcaster Broadcaster,
	cache CacheInvalidator,
) RentalService {
	return &rentalService{
		repo:        repo,
		idGen:       idGen,
		broadcaster: broadcaster,
		cache:       cache,
	}
}

func (s *rentalService) Submit(ctx context.Context, req *SubmitRequest) (*model.Rental, error) {
	gameIDs := dedupe(req.GameIDs)

	rental := &model.Rental{
		RentalNo: fmt.Sprintf("RT%d", s.idGen.NextID()),
		Name:     req.Name,
		Phone:    req.Phone,
		Duration: req.Duration,
		Status:   model.RentalStatusPending,
	}

	if err := s.repo.CreateWithGames(ctx, rental, gameIDs); err != nil {
		if errors.Is(err, repository.ErrGamesUnavailable) {
			monitor.IncRentalConflicts()
			log.WithFields(map[string]interface{}{
				"game_ids": gameIDs,
			}).Warn("Rental rejected, games unavailable")
			return nil, err
		}
		log.WithError(err).Error("Rental creation failed")
		return nil, fmt.Errorf("create rental: %w", err)
	}

	monitor.IncRentalsCreated()
	s.invalidate()

	log.WithFields(map[string]interface{}{
		"rental_no": rental.RentalNo,
		"phone":     utils.MaskPhone(rental.Phone),
		"games":     len(rental.Games),
		"duration":  rental.Duration,
	}).Info("Rental created")

	// fire-and-forget: the order is committed whether or not anyone listens
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(realtime.Event{
			Type: realtime.EventNewRental,
			Data: rental,
		})
	}

	return rental, nil
}

func (s *rentalService) Get(ctx context.Context, id uint64) (*model.Rental, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *rentalService) List(ctx context.Context) ([]*model.Rental, error) {
	return s.repo.List(ctx)
}

func (s *rentalService) UpdateStatus(ctx context.Context, id uint64, status model.RentalStatus) (*model.Rental, error) {
	if !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}

	rental, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	monitor.IncStatusUpdates(string(status))
	if status.IsTerminal() {
		s.invalidate()
	}

	log.WithFields(map[string]interface{}{
		"rental_no": rental.RentalNo,
		"status":    status,
	}).Info("Rental status updated")

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(realtime.Event{
			Type: realtime.EventRentalStatusUpdated,
			Data: rental,
		})
	}

	return rental, nil
}

func (s *rentalService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// dedupe drops repeated IDs while keeping order; the claim update counts
// rows, so duplicates would make a legitimate submission look like a conflict
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
