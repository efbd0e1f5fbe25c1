package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
	"github.com/millworks/planboard-api/pkg/export"
)

type lockedScheduleReader interface {
	LockedSchedule(ctx context.Context) ([]models.SlotAssignmentView, error)
}

// ExportService renders the locked production schedule as CSV or PDF for
// handoff to the floor.
type ExportService struct {
	schedule lockedScheduleReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an export service.
func NewExportService(schedule lockedScheduleReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedule: schedule,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

var exportHeaders = []string{"Order #", "Product", "Plant", "Shift", "Date", "Qty", "Fulfilled", "Pending", "UOM", "Status"}

func (s *ExportService) dataset(ctx context.Context) (export.Dataset, error) {
	views, err := s.schedule.LockedSchedule(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, map[string]string{
			"Order #":   v.OrderNumber,
			"Product":   v.ProductName,
			"Plant":     v.Plant.DisplayName(),
			"Shift":     v.Shift.DisplayName(),
			"Date":      v.Date.Format("2006-01-02"),
			"Qty":       fmt.Sprintf("%.2f", v.Quantity),
			"Fulfilled": fmt.Sprintf("%.2f", v.FulfilledQty),
			"Pending":   fmt.Sprintf("%.2f", v.PendingQty),
			"UOM":       v.UOM,
			"Status":    v.Status.Status,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}, nil
}

// CSV renders the locked schedule as CSV.
func (s *ExportService) CSV(ctx context.Context) ([]byte, error) {
	data, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
	}
	return payload, nil
}

// PDF renders the locked schedule as a landscape PDF table.
func (s *ExportService) PDF(ctx context.Context) ([]byte, error) {
	data, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(data, "Production Schedule")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
	}
	return payload, nil
}
