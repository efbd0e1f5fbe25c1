package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type rollForwardWriter interface {
	RollForward(ctx context.Context, today time.Time) ([]models.SlotAssignment, error)
}

// RollForwardService moves stale unlocked, uncompleted assignments to today.
// It runs on every board read rather than on a timer, so the schedule is
// correct the moment anyone looks at it. The repository update is a single
// guarded statement, which makes a second run on the same day a no-op.
type RollForwardService struct {
	slots   rollForwardWriter
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewRollForwardService constructs a roll-forward service.
func NewRollForwardService(slots rollForwardWriter, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *RollForwardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RollForwardService{
		slots:   slots,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Run performs one roll-forward pass and returns the assignments it moved,
// annotated as rolled. An empty result means the schedule was already
// current.
func (s *RollForwardService) Run(ctx context.Context) ([]models.SlotAssignment, error) {
	today := dayOf(s.now())
	rolled, err := s.slots.RollForward(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "roll-forward pass failed")
	}
	if len(rolled) == 0 {
		return nil, nil
	}
	for i := range rolled {
		rolled[i].IsRollForward = true
	}
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
	s.metrics.RecordRolledJobs(len(rolled))
	s.logger.Info("rolled stale assignments forward",
		zap.Int("count", len(rolled)),
		zap.Time("today", today))
	return rolled, nil
}
