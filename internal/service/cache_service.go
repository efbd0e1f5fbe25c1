package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/models"
)

// utilizationCache is the slice of the cache repository the read side needs.
type utilizationCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService caches utilization snapshots. Every write that changes a
// slot's load must invalidate the slot's key; a stale snapshot on the board
// is worse than a recomputed one.
type CacheService struct {
	repo    utilizationCache
	ttl     time.Duration
	enabled bool
	logger  *zap.Logger
}

// NewCacheService constructs a cache service. A nil repository disables
// caching entirely, which keeps tests and local setups free of Redis.
func NewCacheService(repo utilizationCache, ttl time.Duration, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, ttl: ttl, enabled: repo != nil, logger: logger}
}

func utilizationKey(plant models.Plant, shift models.Shift, date time.Time) string {
	return fmt.Sprintf("utilization:%s:%s:%s", plant, shift, date.UTC().Format("2006-01-02"))
}

// GetUtilization returns a cached snapshot, or false when absent.
func (s *CacheService) GetUtilization(ctx context.Context, plant models.Plant, shift models.Shift, date time.Time) (*models.UtilizationSnapshot, bool) {
	if !s.enabled {
		return nil, false
	}
	var snap models.UtilizationSnapshot
	if err := s.repo.Get(ctx, utilizationKey(plant, shift, date), &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// SetUtilization stores a snapshot under the slot's key. Failures are logged
// and swallowed; the cache is an optimization, never a source of truth.
func (s *CacheService) SetUtilization(ctx context.Context, snap *models.UtilizationSnapshot) {
	if !s.enabled || snap == nil {
		return
	}
	key := utilizationKey(snap.Plant, snap.Shift, snap.Date)
	if err := s.repo.Set(ctx, key, snap, s.ttl); err != nil {
		s.logger.Warn("failed to cache utilization snapshot", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateSlot drops the cached snapshot for one slot.
func (s *CacheService) InvalidateSlot(ctx context.Context, plant models.Plant, shift models.Shift, date time.Time) {
	if !s.enabled {
		return
	}
	key := utilizationKey(plant, shift, date)
	if err := s.repo.DeleteByPattern(ctx, key); err != nil {
		s.logger.Warn("failed to invalidate utilization cache", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateAll drops every cached utilization snapshot. Used after bulk
// writes and roll-forward, which touch an unbounded set of slots.
func (s *CacheService) InvalidateAll(ctx context.Context) {
	if !s.enabled {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, "utilization:*"); err != nil {
		s.logger.Warn("failed to invalidate utilization cache", zap.Error(err))
	}
}
