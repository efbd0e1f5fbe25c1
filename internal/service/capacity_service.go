package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/models"
	"github.com/millworks/planboard-api/pkg/config"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type capacityRuleLister interface {
	ListActive(ctx context.Context) ([]models.CapacityRule, error)
}

type slotLoadReader interface {
	SumQuantityBySlot(ctx context.Context, plant models.Plant, shift models.Shift, date time.Time) (float64, error)
}

// CapacityService resolves the effective capacity of a slot and computes
// utilization snapshots. Capacity is soft everywhere: callers get figures and
// flags, never a refusal to book.
type CapacityService struct {
	rules    capacityRuleLister
	slots    slotLoadReader
	cache    *CacheService
	metrics  *MetricsService
	fallback []models.CapacityRule
	logger   *zap.Logger
}

// NewCapacityService constructs a capacity service. The fallback matrix is
// only consulted when enabled in config and no rule matches a slot.
func NewCapacityService(rules capacityRuleLister, slots slotLoadReader, cache *CacheService, metrics *MetricsService, cfg config.SchedulerConfig, logger *zap.Logger) *CapacityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	var fallback []models.CapacityRule
	if cfg.UseFallbackCapacity {
		fallback = models.DefaultCapacityMatrix()
	}
	return &CapacityService{
		rules:    rules,
		slots:    slots,
		cache:    cache,
		metrics:  metrics,
		fallback: fallback,
		logger:   logger,
	}
}

// CapacityTable is a point-in-time resolution table over the active rules
// plus the fallback matrix. Callers that probe many slots in one request
// (suggestion, board refresh) take one table instead of one query per slot.
type CapacityTable struct {
	productRules map[string]float64 // plant|shift|lower(product)
	slotRules    map[string]float64 // plant|shift
	fallback     map[string]float64 // plant|shift
}

func slotRuleKey(plant models.Plant, shift models.Shift) string {
	return string(plant) + "|" + string(shift)
}

func productRuleKey(plant models.Plant, shift models.Shift, product string) string {
	return string(plant) + "|" + string(shift) + "|" + strings.ToLower(strings.TrimSpace(product))
}

// Lookup resolves the capacity for one slot. Precedence: product-specific
// rule, then plant/shift rule, then the fallback matrix. MaxCapacity 0 with
// source "none" means capacity is simply not configured.
func (t *CapacityTable) Lookup(plant models.Plant, shift models.Shift, product string) (float64, models.CapacitySource) {
	if product != "" {
		if capQty, ok := t.productRules[productRuleKey(plant, shift, product)]; ok {
			return capQty, models.CapacitySourceProduct
		}
	}
	if capQty, ok := t.slotRules[slotRuleKey(plant, shift)]; ok {
		return capQty, models.CapacitySourceRule
	}
	if capQty, ok := t.fallback[slotRuleKey(plant, shift)]; ok {
		return capQty, models.CapacitySourceFallback
	}
	return 0, models.CapacitySourceNone
}

// Table loads the active rules and builds a resolution table.
func (s *CapacityService) Table(ctx context.Context) (*CapacityTable, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load capacity rules")
	}
	table := &CapacityTable{
		productRules: make(map[string]float64),
		slotRules:    make(map[string]float64),
		fallback:     make(map[string]float64),
	}
	for _, rule := range rules {
		if rule.ProductName != nil && *rule.ProductName != "" {
			table.productRules[productRuleKey(rule.Plant, rule.Shift, *rule.ProductName)] = rule.MaxCapacity
			continue
		}
		table.slotRules[slotRuleKey(rule.Plant, rule.Shift)] = rule.MaxCapacity
	}
	for _, rule := range s.fallback {
		table.fallback[slotRuleKey(rule.Plant, rule.Shift)] = rule.MaxCapacity
	}
	return table, nil
}

// Rules returns the active capacity rules for the admin screen.
func (s *CapacityService) Rules(ctx context.Context) ([]models.CapacityRule, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load capacity rules")
	}
	return rules, nil
}

// CapacityFor resolves the effective capacity for one slot.
func (s *CapacityService) CapacityFor(ctx context.Context, plant models.Plant, shift models.Shift, product string) (float64, models.CapacitySource, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return 0, models.CapacitySourceNone, err
	}
	capQty, source := table.Lookup(plant, shift, product)
	return capQty, source, nil
}

// Utilization computes the load-vs-capacity snapshot for one slot. The
// snapshot is cached briefly; writers invalidate the slot's key.
func (s *CapacityService) Utilization(ctx context.Context, plant models.Plant, shift models.Shift, date time.Time) (*models.UtilizationSnapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.GetUtilization(ctx, plant, shift, date); ok {
			s.metrics.RecordCacheOperation(true)
			return snap, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	load, err := s.slots.SumQuantityBySlot(ctx, plant, shift, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute slot load")
	}
	capQty, source, err := s.CapacityFor(ctx, plant, shift, "")
	if err != nil {
		return nil, err
	}

	snap := &models.UtilizationSnapshot{
		Plant:         plant,
		Shift:         shift,
		Date:          dayOf(date),
		Load:          load,
		MaxCapacity:   capQty,
		CapacityKnown: source != models.CapacitySourceNone,
		Source:        source,
	}
	if snap.CapacityKnown && capQty > 0 {
		snap.Percent = load / capQty * 100
		snap.OverCapacity = load > capQty
		snap.Severity = models.SeverityForPercent(snap.Percent)
	} else {
		snap.Severity = models.UtilizationNormal
	}

	if s.cache != nil {
		s.cache.SetUtilization(ctx, snap)
	}
	return snap, nil
}

// BoardUtilization computes snapshots for every slot in a date window,
// one per (plant, shift, day). Days with no assignments still appear so the
// board can render empty cells with their capacity.
func (s *CapacityService) BoardUtilization(ctx context.Context, start time.Time, days int) ([]models.UtilizationSnapshot, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]models.UtilizationSnapshot, 0, days*len(models.Plants())*len(models.Shifts()))
	for d := 0; d < days; d++ {
		date := dayOf(start).AddDate(0, 0, d)
		for _, plant := range models.Plants() {
			for _, shift := range models.Shifts() {
				load, err := s.slots.SumQuantityBySlot(ctx, plant, shift, date)
				if err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute slot load")
				}
				capQty, source := table.Lookup(plant, shift, "")
				snap := models.UtilizationSnapshot{
					Plant:         plant,
					Shift:         shift,
					Date:          date,
					Load:          load,
					MaxCapacity:   capQty,
					CapacityKnown: source != models.CapacitySourceNone,
					Source:        source,
					Severity:      models.UtilizationNormal,
				}
				if snap.CapacityKnown && capQty > 0 {
					snap.Percent = load / capQty * 100
					snap.OverCapacity = load > capQty
					snap.Severity = models.SeverityForPercent(snap.Percent)
				}
				snapshots = append(snapshots, snap)
			}
		}
	}
	return snapshots, nil
}
