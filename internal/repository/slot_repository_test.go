package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millworks/planboard-api/internal/models"
)

func newSlotRepoMock(t *testing.T) (*SlotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSlotRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestSlotRepositoryCreateComputesPending(t *testing.T) {
	repo, mock := newSlotRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO slot_assignments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.SlotAssignment{
		OrderNumber:  "SO-1",
		ProductName:  "Pine Decking",
		Plant:        models.PlantPineMill,
		Shift:        models.ShiftMorning,
		Date:         time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		Quantity:     100,
		UOM:          "m3",
		FulfilledQty: 30,
	}
	require.NoError(t, repo.Create(context.Background(), nil, assignment))

	assert.NotEmpty(t, assignment.ID)
	assert.Equal(t, 70.0, assignment.PendingQty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryCreatePendingClampsAtZero(t *testing.T) {
	repo, mock := newSlotRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO slot_assignments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.SlotAssignment{
		OrderNumber:  "SO-2",
		Plant:        models.PlantPineMill,
		Shift:        models.ShiftMorning,
		Date:         time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		Quantity:     50,
		FulfilledQty: 80,
	}
	require.NoError(t, repo.Create(context.Background(), nil, assignment))
	assert.Equal(t, 0.0, assignment.PendingQty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryLockIsCompareAndSet(t *testing.T) {
	repo, mock := newSlotRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slot_assignments SET locked = TRUE")).
		WithArgs(70.0, 30.0, true, sqlmock.AnyArg(), "slot-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Lock(context.Background(), nil, "slot-1", 70, 30, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryLockLosesRace(t *testing.T) {
	repo, mock := newSlotRepoMock(t)

	// Another actor locked the row first; the guarded update touches
	// nothing.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE slot_assignments SET locked = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Lock(context.Background(), nil, "slot-1", 70, 30, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryUpdateSlotGuardedByLock(t *testing.T) {
	repo, mock := newSlotRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slot_assignments SET plant = $1, shift = $2, date = $3")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateSlot(context.Background(), nil, "slot-1",
		models.PlantHardwoodMill, models.ShiftNight, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryRollForwardReturnsMovedRows(t *testing.T) {
	repo, mock := newSlotRepoMock(t)

	today := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "order_number", "product_name", "plant", "shift", "date", "quantity", "uom", "required_by", "locked", "fulfilled_qty", "pending_qty", "is_split_order", "original_date", "created_at", "updated_at"}).
		AddRow("slot-1", "SO-1", "Pine Decking", "PINE_MILL", "MORNING", today, 10.0, "m3", nil, false, 0.0, 10.0, false, yesterday, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE slot_assignments")).
		WithArgs(today, sqlmock.AnyArg(), string(models.OrderStatusCompleted)).
		WillReturnRows(rows)

	rolled, err := repo.RollForward(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, rolled, 1)
	assert.Equal(t, today, rolled[0].Date.UTC())
	require.NotNil(t, rolled[0].OriginalDate)
	assert.Equal(t, yesterday, rolled[0].OriginalDate.UTC())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositorySumQuantityBySlot(t *testing.T) {
	repo, mock := newSlotRepoMock(t)

	date := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(quantity), 0)")).
		WithArgs(string(models.PlantPineMill), string(models.ShiftMorning), date).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(65.0))

	total, err := repo.SumQuantityBySlot(context.Background(), models.PlantPineMill, models.ShiftMorning, date)
	require.NoError(t, err)
	assert.Equal(t, 65.0, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
