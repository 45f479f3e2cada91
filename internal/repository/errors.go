package repository

import "errors"

// Sentinel errors surfaced by repositories. Services translate these into
// API-level errors; nothing below this layer knows about HTTP.
var (
	// ErrGameNotFound the referenced game does not exist
	ErrGameNotFound = errors.New("game not found")

	// ErrRentalNotFound the referenced rental does not exist
	ErrRentalNotFound = errors.New("rental not found")

	// ErrGamesUnavailable at least one requested game could not be claimed.
	// Raised when the conditional claim update touches fewer rows than
	// requested, which covers both already-rented and nonexistent IDs.
	ErrGamesUnavailable = errors.New("one or more games are not available")

	// ErrUserNotFound the admin account does not exist
	ErrUserNotFound = errors.New("user not found")
)
