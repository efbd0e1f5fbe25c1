package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlantAliases(t *testing.T) {
	cases := map[string]Plant{
		"PINE_MILL":     PlantPineMill,
		"Pine Mill":     PlantPineMill,
		" pine mill ":   PlantPineMill,
		"HARDWOOD_MILL": PlantHardwoodMill,
		"Rounding Mill": PlantRoundingMill,
		"destrip shed":  PlantDestripShed,
	}
	for raw, expected := range cases {
		plant, ok := ParsePlant(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, expected, plant, raw)
	}
}

func TestParsePlantRejectsUnknownNames(t *testing.T) {
	// Substring inference is gone on purpose: a name merely containing
	// "pine" must not resolve.
	for _, raw := range []string{"", "Pinewood Yard", "mill", "North Pine Depot"} {
		_, ok := ParsePlant(raw)
		assert.False(t, ok, raw)
	}
}

func TestShiftRankOrdering(t *testing.T) {
	assert.Less(t, ShiftMorning.Rank(), ShiftAfternoon.Rank())
	assert.Less(t, ShiftAfternoon.Rank(), ShiftNight.Rank())
}

func TestParseShift(t *testing.T) {
	shift, ok := ParseShift("Night Shift")
	assert.True(t, ok)
	assert.Equal(t, ShiftNight, shift)

	_, ok = ParseShift("graveyard")
	assert.False(t, ok)
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusScheduled))
	assert.True(t, OrderStatusScheduled.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusScheduled.CanTransitionTo(OrderStatusPending))
}
