package service

import (
	"context"
	"fmt"
	"time"

	"balance_dashboard/internal/app/port"
	"balance_dashboard/internal/domain/entity"
	"balance_dashboard/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	balancesCacheKey   = "balances"
	defaultLoadTimeout = 30 * time.Second
)

// BalanceServiceConfig configures balanceServiceImpl.
type BalanceServiceConfig struct {
	SourceName  string
	CacheTTL    time.Duration
	SnapshotTTL time.Duration
	// LoadTimeout bounds a shared source call, which runs detached from any single caller.
	LoadTimeout time.Duration
}

// balanceServiceImpl implements port.BalanceService on top of a BalanceSource.
// Results are cached for CacheTTL; concurrent misses share one source call.
// When a SnapshotStore is set, successful results are saved to it and read back
// if the source fails.
type balanceServiceImpl struct {
	source    port.BalanceSource
	snapshots port.SnapshotStore
	logger    port.Logger
	metrics   *metrics.Metrics
	cfg       BalanceServiceConfig
	cache     *cache.Cache
	group     singleflight.Group
}

// NewBalanceService creates a balance service. snapshots may be nil.
func NewBalanceService(
	source port.BalanceSource,
	snapshots port.SnapshotStore,
	l port.Logger,
	m *metrics.Metrics,
	cfg BalanceServiceConfig,
) port.BalanceService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	if cfg.SourceName == "" {
		cfg.SourceName = "unknown"
	}
	s := &balanceServiceImpl{
		source:    source,
		snapshots: snapshots,
		logger:    l,
		metrics:   m,
		cfg:       cfg,
		cache:     cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
	l.Info("BalanceService initialized", "source", cfg.SourceName, "cacheTTL", cfg.CacheTTL.String(), "snapshots", snapshots != nil)
	return s
}

// GetBalances implements port.BalanceService.
func (s *balanceServiceImpl) GetBalances(ctx context.Context) ([]entity.BalanceRecord, error) {
	if cached, ok := s.cache.Get(balancesCacheKey); ok {
		s.metrics.ObserveCache("hit")
		return cached.([]entity.BalanceRecord), nil
	}
	s.metrics.ObserveCache("miss")

	// the shared call must not inherit one caller's cancellation
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(balancesCacheKey, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(loadCtx, s.cfg.LoadTimeout)
		defer cancel()
		return s.load(ctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Balances request joined an in-flight source call")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]entity.BalanceRecord), nil
	}
}

func (s *balanceServiceImpl) load(ctx context.Context) ([]entity.BalanceRecord, error) {
	records, err := s.source.FetchBalances(ctx)
	s.metrics.ObserveSource(s.cfg.SourceName, err)
	if err != nil {
		s.logger.Error("Failed to fetch balances from source", "source", s.cfg.SourceName, "error", err)
		return s.fallback(ctx, err)
	}
	if records == nil {
		records = []entity.BalanceRecord{}
	}

	s.cache.SetDefault(balancesCacheKey, records)
	if s.snapshots != nil {
		if errSave := s.snapshots.Save(ctx, records, s.cfg.SnapshotTTL); errSave != nil {
			s.logger.Warn("Failed to save balances snapshot", "error", errSave)
		}
	}
	s.logger.Debug("Balances fetched from source", "source", s.cfg.SourceName, "count", len(records))
	return records, nil
}

func (s *balanceServiceImpl) fallback(ctx context.Context, sourceErr error) ([]entity.BalanceRecord, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("fetch balances from %s: %w", s.cfg.SourceName, sourceErr)
	}
	records, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load balances snapshot", "error", err)
		return nil, fmt.Errorf("fetch balances from %s: %w", s.cfg.SourceName, sourceErr)
	}
	if records == nil {
		return nil, fmt.Errorf("fetch balances from %s: %w", s.cfg.SourceName, sourceErr)
	}
	s.metrics.ObserveCache("stale")
	s.logger.Warn("Serving balances from snapshot", "count", len(records), "sourceError", sourceErr)
	return records, nil
}
