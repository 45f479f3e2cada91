package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRentalStatus_IsValid(t *testing.T) {
	valid := []RentalStatus{
		RentalStatusPending,
		RentalStatusActive,
		RentalStatusCompleted,
		RentalStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "status %s", s)
	}

	assert.False(t, RentalStatus("returned").IsValid())
	assert.False(t, RentalStatus("").IsValid())
	assert.False(t, RentalStatus("Pending").IsValid(), "statuses are case sensitive")
}

func TestRentalStatus_IsTerminal(t *testing.T) {
	assert.False(t, RentalStatusPending.IsTerminal())
	assert.False(t, RentalStatusActive.IsTerminal())
	assert.True(t, RentalStatusCompleted.IsTerminal())
	assert.True(t, RentalStatusCancelled.IsTerminal())
}

func TestPlatform_IsValid(t *testing.T) {
	for _, p := range Platforms {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Platform("PC").IsValid())
	assert.False(t, Platform("ps5").IsValid(), "platforms are case sensitive")
}

func TestRental_GameIDs(t *testing.T) {
	r := &Rental{Games: []*Game{{ID: 3}, {ID: 7}}}
	assert.Equal(t, []uint64{3, 7}, r.GameIDs())

	empty := &Rental{}
	assert.Empty(t, empty.GameIDs())
}
