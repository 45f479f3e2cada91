package model

import (
	"time"
)

// Platform supported game platform
type Platform string

// Supported platforms. The set is closed; validation rejects anything else.
const (
	PlatformPS5    Platform = "PS5"
	PlatformXbox   Platform = "Xbox Series X"
	PlatformSwitch Platform = "Nintendo Switch"
)

// Platforms lists every supported platform
var Platforms = []Platform{PlatformPS5, PlatformXbox, PlatformSwitch}

// IsValid reports whether p is a supported platform
func (p Platform) IsValid() bool {
	switch p {
	case PlatformPS5, PlatformXbox, PlatformSwitch:
		return true
	}
	return false
}

// Game rentable catalog entry.
// Available is owned by the rental coordinator once a game is part of a
// non-terminal rental: false means exactly one pending/active rental
// references this game.
type Game struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null;index" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"imageUrl"`
	PricePerDay float64   `gorm:"type:decimal(10,2);not null" json:"pricePerDay"`
	Platform    Platform  `gorm:"type:varchar(32);not null;index" json:"platform"`
	Available   bool      `gorm:"not null;default:true;index" json:"available"`
	CreatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updatedAt"`

	Rentals []*Rental `gorm:"many2many:rental_games" json:"-"`
}

// TableName set name
func (Game) TableName() string {
	return "games"
}
