package model

import (
	"time"
)

// RentalStatus rental lifecycle status
type RentalStatus string

// Rental statuses. Completed and cancelled are terminal; reaching either one
// releases every referenced game back to the catalog.
const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// IsValid reports whether s is a known rental status
func (s RentalStatus) IsValid() bool {
	switch s {
	case RentalStatusPending, RentalStatusActive, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s is a terminal status
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

// Rental customer rental order. Games is many-to-many through rental_games
// and is never empty for a persisted rental.
type Rental struct {
	ID        uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	RentalNo  string       `gorm:"type:varchar(32);uniqueIndex;not null" json:"rentalNo"`
	Name      string       `gorm:"type:varchar(100);not null" json:"name"`
	Phone     string       `gorm:"type:varchar(20);not null" json:"phone"`
	Duration  int          `gorm:"type:int;not null" json:"duration"`
	Status    RentalStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time    `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updatedAt"`

	Games []*Game `gorm:"many2many:rental_games" json:"games"`
}

// TableName set name
func (Rental) TableName() string {
	return "rentals"
}

// IsPending check rental is pending
func (r *Rental) IsPending() bool {
	return r.Status == RentalStatusPending
}

// IsActive check rental is active
func (r *Rental) IsActive() bool {
	return r.Status == RentalStatusActive
}

// IsTerminal check rental reached a terminal status
func (r *Rental) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// GameIDs returns the IDs of the attached games
func (r *Rental) GameIDs() []uint64 {
	ids := make([]uint64, 0, len(r.Games))
	for _, g := range r.Games {
		ids = append(ids, g.ID)
	}
	return ids
}

// Duration bounds for a rental, in days
const (
	MinRentalDuration = 1
	MaxRentalDuration = 30
)
