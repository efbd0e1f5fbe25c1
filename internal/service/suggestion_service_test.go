package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millworks/planboard-api/internal/models"
	"github.com/millworks/planboard-api/pkg/config"
)

type fakeRangeReader struct {
	assignments map[models.Plant][]models.SlotAssignment
}

func (f *fakeRangeReader) ListByPlantRange(_ context.Context, plant models.Plant, _, _ time.Time) ([]models.SlotAssignment, error) {
	return f.assignments[plant], nil
}

func newSuggestionFixture(t *testing.T, rules []models.CapacityRule, assignments map[models.Plant][]models.SlotAssignment, now time.Time) *SuggestionService {
	t.Helper()
	capacity := NewCapacityService(
		&fakeRuleRepo{rules: rules},
		&fakeSlotLoads{},
		nil, nil,
		config.SchedulerConfig{},
		nil,
	)
	svc := NewSuggestionService(&fakeRangeReader{assignments: assignments}, capacity, nil, 14, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSuggestPicksLeastLoadedSlot(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rules := []models.CapacityRule{
		{Plant: models.PlantPineMill, Shift: models.ShiftMorning, MaxCapacity: 20, Active: true},
		{Plant: models.PlantPineMill, Shift: models.ShiftAfternoon, MaxCapacity: 20, Active: true},
	}
	assignments := map[models.Plant][]models.SlotAssignment{
		models.PlantPineMill: {
			{Plant: models.PlantPineMill, Shift: models.ShiftMorning, Date: today, Quantity: 15},
			{Plant: models.PlantPineMill, Shift: models.ShiftAfternoon, Date: today, Quantity: 5},
		},
	}
	svc := newSuggestionFixture(t, rules, assignments, now)

	resp, err := svc.Suggest(context.Background(), &models.Order{OrderNumber: "SO-1", ProductName: "Pine Decking"})
	require.NoError(t, err)
	require.NotNil(t, resp.Slot)

	// Day two of the window is completely empty, so the earliest empty
	// morning slot wins over today's partially loaded ones.
	assert.Equal(t, models.PlantPineMill, resp.Slot.Plant)
	assert.Equal(t, models.ShiftMorning, resp.Slot.Shift)
	assert.Equal(t, today.AddDate(0, 0, 1), resp.Slot.Date)
	assert.Equal(t, 0.0, resp.Slot.Utilization)
}

func TestSuggestTieBreakByDateThenShift(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	rules := []models.CapacityRule{
		{Plant: models.PlantPineMill, Shift: models.ShiftNight, MaxCapacity: 10, Active: true},
		{Plant: models.PlantPineMill, Shift: models.ShiftAfternoon, MaxCapacity: 10, Active: true},
		{Plant: models.PlantPineMill, Shift: models.ShiftMorning, MaxCapacity: 10, Active: true},
	}
	svc := newSuggestionFixture(t, rules, nil, now)

	resp, err := svc.Suggest(context.Background(), &models.Order{OrderNumber: "SO-2"})
	require.NoError(t, err)
	require.NotNil(t, resp.Slot)

	// Everything is empty: earliest date wins, then Morning before
	// Afternoon before Night.
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), resp.Slot.Date)
	assert.Equal(t, models.ShiftMorning, resp.Slot.Shift)
}

func TestSuggestDeterministic(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rules := []models.CapacityRule{
		{Plant: models.PlantPineMill, Shift: models.ShiftMorning, MaxCapacity: 20, Active: true},
		{Plant: models.PlantHardwoodMill, Shift: models.ShiftMorning, MaxCapacity: 20, Active: true},
	}
	assignments := map[models.Plant][]models.SlotAssignment{
		models.PlantPineMill: {
			{Plant: models.PlantPineMill, Shift: models.ShiftMorning, Date: today, Quantity: 4},
		},
		models.PlantHardwoodMill: {
			{Plant: models.PlantHardwoodMill, Shift: models.ShiftMorning, Date: today, Quantity: 4},
		},
	}
	svc := newSuggestionFixture(t, rules, assignments, now)
	ord := &models.Order{OrderNumber: "SO-3", ProductName: "Hardwood Flooring"}

	first, err := svc.Suggest(context.Background(), ord)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Suggest(context.Background(), ord)
		require.NoError(t, err)
		assert.Equal(t, first.Slot, again.Slot)
	}
}

func TestSuggestProductRuleRestrictsLoad(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rules := []models.CapacityRule{
		{Plant: models.PlantPineMill, Shift: models.ShiftMorning, ProductName: strPtr("Pine Decking"), MaxCapacity: 10, Active: true},
	}
	// Every morning in the window carries 8 units of an unrelated product
	// plus 2 units of decking; only the 2 count against the decking rule.
	var pineSlots []models.SlotAssignment
	for d := 0; d < 14; d++ {
		date := today.AddDate(0, 0, d)
		pineSlots = append(pineSlots,
			models.SlotAssignment{Plant: models.PlantPineMill, Shift: models.ShiftMorning, Date: date, ProductName: "Rounding Posts", Quantity: 8},
			models.SlotAssignment{Plant: models.PlantPineMill, Shift: models.ShiftMorning, Date: date, ProductName: "Pine Decking", Quantity: 2},
		)
	}
	assignments := map[models.Plant][]models.SlotAssignment{models.PlantPineMill: pineSlots}
	svc := newSuggestionFixture(t, rules, assignments, now)

	resp, err := svc.Suggest(context.Background(), &models.Order{OrderNumber: "SO-4", ProductName: "Pine Decking"})
	require.NoError(t, err)
	require.NotNil(t, resp.Slot)
	assert.Equal(t, today, resp.Slot.Date)
	assert.InDelta(t, 20.0, resp.Slot.Utilization, 0.001)
}

func TestSuggestNoneWhenNoCapacityDefined(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	svc := newSuggestionFixture(t, nil, nil, now)

	resp, err := svc.Suggest(context.Background(), &models.Order{OrderNumber: "SO-5"})
	require.NoError(t, err)
	assert.Nil(t, resp.Slot)
	assert.Equal(t, 14, resp.WindowDays)
}
