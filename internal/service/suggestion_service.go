package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/dto"
	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type suggestionSlotReader interface {
	ListByPlantRange(ctx context.Context, plant models.Plant, from, to time.Time) ([]models.SlotAssignment, error)
}

// SuggestionService recommends the least-loaded (plant, shift, date) slot for
// an order inside a bounded lookahead window. The heuristic is greedy and
// myopic on purpose: it ranks each candidate by its own utilization percent
// and never plans ahead. Ranking is fully deterministic, so the same data
// always yields the same suggestion.
type SuggestionService struct {
	slots      suggestionSlotReader
	capacity   *CapacityService
	metrics    *MetricsService
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewSuggestionService constructs a suggestion service.
func NewSuggestionService(slots suggestionSlotReader, capacity *CapacityService, metrics *MetricsService, windowDays int, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if windowDays <= 0 {
		windowDays = 14
	}
	return &SuggestionService{
		slots:      slots,
		capacity:   capacity,
		metrics:    metrics,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

// slotLoad aggregates assigned quantity per slot, total and for one product.
type slotLoad struct {
	total   float64
	product float64
}

// Suggest returns the best slot for the order, or a response with a nil Slot
// when no candidate in the window has any defined capacity.
//
// Candidates are ranked ascending by utilization percent; ties break by
// earliest date, then by shift order Morning < Afternoon < Night. The
// iteration below visits candidates in exactly that tie-break order, so a
// strict less-than comparison yields the correct winner.
func (s *SuggestionService) Suggest(ctx context.Context, ord *models.Order) (*dto.SuggestResponse, error) {
	table, err := s.capacity.Table(ctx)
	if err != nil {
		return nil, err
	}

	start := dayOf(s.now())
	end := start.AddDate(0, 0, s.windowDays)

	loads := make(map[models.Plant]map[string]slotLoad, len(models.Plants()))
	for _, plant := range models.Plants() {
		assignments, err := s.slots.ListByPlantRange(ctx, plant, start, end)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot assignments for suggestion")
		}
		bySlot := make(map[string]slotLoad)
		for _, a := range assignments {
			key := loadKey(a.Shift, a.Date)
			load := bySlotGet(bySlot, key)
			load.total += a.Quantity
			if strings.EqualFold(strings.TrimSpace(a.ProductName), strings.TrimSpace(ord.ProductName)) {
				load.product += a.Quantity
			}
			bySlot[key] = load
		}
		loads[plant] = bySlot
	}

	var best *dto.SuggestedSlot
	for d := 0; d < s.windowDays; d++ {
		date := start.AddDate(0, 0, d)
		for _, shift := range models.Shifts() {
			for _, plant := range models.Plants() {
				capQty, source := table.Lookup(plant, shift, ord.ProductName)
				if source == models.CapacitySourceNone || capQty <= 0 {
					continue
				}
				load := bySlotGet(loads[plant], loadKey(shift, date))
				used := load.total
				if source == models.CapacitySourceProduct {
					used = load.product
				}
				percent := used / capQty * 100
				if best == nil || percent < best.Utilization {
					best = &dto.SuggestedSlot{
						Plant:       plant,
						Shift:       shift,
						Date:        date,
						Utilization: percent,
					}
				}
			}
		}
	}

	s.metrics.RecordSuggestion(best != nil)
	if best == nil {
		s.logger.Debug("no slot with defined capacity in lookahead window",
			zap.String("order_number", ord.OrderNumber),
			zap.Int("window_days", s.windowDays))
	}
	return &dto.SuggestResponse{
		OrderNumber: ord.OrderNumber,
		Slot:        best,
		WindowDays:  s.windowDays,
	}, nil
}

func loadKey(shift models.Shift, date time.Time) string {
	return string(shift) + "|" + dayOf(date).Format("2006-01-02")
}

func bySlotGet(m map[string]slotLoad, key string) slotLoad {
	if m == nil {
		return slotLoad{}
	}
	return m[key]
}
