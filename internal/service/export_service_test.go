package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millworks/planboard-api/internal/models"
)

type fakeLockedSchedule struct {
	views []models.SlotAssignmentView
}

func (f *fakeLockedSchedule) LockedSchedule(context.Context) ([]models.SlotAssignmentView, error) {
	return f.views, nil
}

func TestExportCSVRendersLockedSchedule(t *testing.T) {
	views := []models.SlotAssignmentView{
		{
			SlotAssignment: models.SlotAssignment{
				OrderNumber: "SO-1",
				ProductName: "Pine Decking",
				Plant:       models.PlantPineMill,
				Shift:       models.ShiftMorning,
				Date:        time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
				Quantity:    100,
				UOM:         "m3",
				Locked:      true,
			},
			Status: models.SlotStatus{Status: models.SlotStatusInProgress, Percent: 70},
		},
	}
	svc := NewExportService(&fakeLockedSchedule{views: views}, nil)

	payload, err := svc.CSV(context.Background())
	require.NoError(t, err)

	text := string(payload)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Order #")
	assert.Contains(t, lines[1], "SO-1")
	assert.Contains(t, lines[1], "Pine Mill")
	assert.Contains(t, lines[1], "Morning Shift")
	assert.Contains(t, lines[1], "2024-03-06")
}

func TestExportPDFProducesDocument(t *testing.T) {
	svc := NewExportService(&fakeLockedSchedule{}, nil)

	payload, err := svc.PDF(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
