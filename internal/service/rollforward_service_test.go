package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millworks/planboard-api/internal/models"
)

// fakeRollForwardStore mimics the guarded roll-forward statement: unlocked,
// incomplete assignments dated before today are re-dated, original_date is
// set only on first roll, and already current rows are untouched.
type fakeRollForwardStore struct {
	assignments map[string]*models.SlotAssignment
	completed   map[string]bool
	calls       int
}

func (f *fakeRollForwardStore) RollForward(_ context.Context, today time.Time) ([]models.SlotAssignment, error) {
	f.calls++
	var rolled []models.SlotAssignment
	for _, a := range f.assignments {
		if a.Locked || f.completed[a.OrderNumber] || !a.Date.Before(today) {
			continue
		}
		if a.OriginalDate == nil {
			original := a.Date
			a.OriginalDate = &original
		}
		a.Date = today
		rolled = append(rolled, *a)
	}
	return rolled, nil
}

func newRollForwardFixture(assignments ...*models.SlotAssignment) (*RollForwardService, *fakeRollForwardStore) {
	store := &fakeRollForwardStore{assignments: map[string]*models.SlotAssignment{}, completed: map[string]bool{}}
	for _, a := range assignments {
		store.assignments[a.ID] = a
	}
	svc := NewRollForwardService(store, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestRollForwardMovesStaleAssignment(t *testing.T) {
	yesterday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	stale := &models.SlotAssignment{ID: "a1", OrderNumber: "SO-1", Date: yesterday, Quantity: 10}
	svc, _ := newRollForwardFixture(stale)

	rolled, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rolled, 1)

	assert.Equal(t, today, rolled[0].Date)
	assert.True(t, rolled[0].IsRollForward)
	require.NotNil(t, rolled[0].OriginalDate)
	assert.Equal(t, yesterday, *rolled[0].OriginalDate)
}

func TestRollForwardIdempotent(t *testing.T) {
	yesterday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	stale := &models.SlotAssignment{ID: "a1", OrderNumber: "SO-1", Date: yesterday, Quantity: 10}
	svc, store := newRollForwardFixture(stale)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 2, store.calls)
}

func TestRollForwardOriginalDateSetOnce(t *testing.T) {
	firstDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	previousRoll := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	// Already rolled once; a later roll must keep the first pre-roll date.
	stale := &models.SlotAssignment{ID: "a1", OrderNumber: "SO-1", Date: previousRoll, OriginalDate: &firstDate, Quantity: 10}
	svc, _ := newRollForwardFixture(stale)

	rolled, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rolled, 1)
	assert.Equal(t, firstDate, *rolled[0].OriginalDate)
}

func TestRollForwardSkipsLockedAndFuture(t *testing.T) {
	yesterday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	locked := &models.SlotAssignment{ID: "a1", OrderNumber: "SO-1", Date: yesterday, Locked: true, Quantity: 10}
	future := &models.SlotAssignment{ID: "a2", OrderNumber: "SO-2", Date: tomorrow, Quantity: 10}
	svc, _ := newRollForwardFixture(locked, future)

	rolled, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rolled)
	assert.Equal(t, yesterday, locked.Date)
	assert.Equal(t, tomorrow, future.Date)
}
