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

type fakeRuleRepo struct {
	rules []models.CapacityRule
}

func (f *fakeRuleRepo) ListActive(context.Context) ([]models.CapacityRule, error) {
	return f.rules, nil
}

type fakeSlotLoads struct {
	loads map[string]float64
}

func slotKey(plant models.Plant, shift models.Shift, date time.Time) string {
	return string(plant) + "|" + string(shift) + "|" + date.Format("2006-01-02")
}

func (f *fakeSlotLoads) SumQuantityBySlot(_ context.Context, plant models.Plant, shift models.Shift, date time.Time) (float64, error) {
	return f.loads[slotKey(plant, shift, date)], nil
}

func strPtr(s string) *string {
	return &s
}

func newCapacityFixture(rules []models.CapacityRule, loads map[string]float64, useFallback bool) *CapacityService {
	return NewCapacityService(
		&fakeRuleRepo{rules: rules},
		&fakeSlotLoads{loads: loads},
		nil, nil,
		config.SchedulerConfig{UseFallbackCapacity: useFallback},
		nil,
	)
}

func TestCapacityForProductRulePrecedence(t *testing.T) {
	rules := []models.CapacityRule{
		{Plant: models.PlantPineMill, Shift: models.ShiftMorning, MaxCapacity: 20, Active: true},
		{Plant: models.PlantPineMill, Shift: models.ShiftMorning, ProductName: strPtr("Pine Decking"), MaxCapacity: 8, Active: true},
	}
	svc := newCapacityFixture(rules, nil, false)

	capQty, source, err := svc.CapacityFor(context.Background(), models.PlantPineMill, models.ShiftMorning, "Pine Decking")
	require.NoError(t, err)
	assert.Equal(t, 8.0, capQty)
	assert.Equal(t, models.CapacitySourceProduct, source)

	capQty, source, err = svc.CapacityFor(context.Background(), models.PlantPineMill, models.ShiftMorning, "Other Product")
	require.NoError(t, err)
	assert.Equal(t, 20.0, capQty)
	assert.Equal(t, models.CapacitySourceRule, source)
}

func TestCapacityForFallbackMatrix(t *testing.T) {
	svc := newCapacityFixture(nil, nil, true)

	capQty, source, err := svc.CapacityFor(context.Background(), models.PlantHardwoodMill, models.ShiftNight, "")
	require.NoError(t, err)
	assert.Equal(t, 15.0, capQty)
	assert.Equal(t, models.CapacitySourceFallback, source)
}

func TestCapacityForUnknownIsNoneNotZero(t *testing.T) {
	svc := newCapacityFixture(nil, nil, false)

	capQty, source, err := svc.CapacityFor(context.Background(), models.PlantDestripShed, models.ShiftMorning, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, capQty)
	assert.Equal(t, models.CapacitySourceNone, source)
}

func TestUtilizationSoftOverbooking(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rules := []models.CapacityRule{
		{Plant: models.PlantPineMill, Shift: models.ShiftMorning, MaxCapacity: 20, Active: true},
	}
	loads := map[string]float64{
		slotKey(models.PlantPineMill, models.ShiftMorning, date): 65,
	}
	svc := newCapacityFixture(rules, loads, false)

	snap, err := svc.Utilization(context.Background(), models.PlantPineMill, models.ShiftMorning, date)
	require.NoError(t, err)

	assert.InDelta(t, 325.0, snap.Percent, 0.001)
	assert.True(t, snap.OverCapacity)
	assert.True(t, snap.CapacityKnown)
	assert.Equal(t, models.UtilizationOver, snap.Severity)
}

func TestUtilizationUnknownCapacity(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	svc := newCapacityFixture(nil, map[string]float64{
		slotKey(models.PlantRoundingMill, models.ShiftAfternoon, date): 12,
	}, false)

	snap, err := svc.Utilization(context.Background(), models.PlantRoundingMill, models.ShiftAfternoon, date)
	require.NoError(t, err)

	assert.False(t, snap.CapacityKnown)
	assert.Equal(t, 0.0, snap.Percent)
	assert.False(t, snap.OverCapacity)
	assert.Equal(t, 12.0, snap.Load)
}

func TestSeverityBands(t *testing.T) {
	assert.Equal(t, models.UtilizationNormal, models.SeverityForPercent(40))
	assert.Equal(t, models.UtilizationElevated, models.SeverityForPercent(70))
	assert.Equal(t, models.UtilizationHigh, models.SeverityForPercent(90))
	assert.Equal(t, models.UtilizationHigh, models.SeverityForPercent(100))
	assert.Equal(t, models.UtilizationOver, models.SeverityForPercent(101))
}
