package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/cache"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
	"github.com/hopelouisville/dashboard/internal/service/fallback"
)

type StatsSource interface {
	Name() string
	CurrentStats(ctx context.Context) domain.SourceResult[domain.StatRecord]
}

type HistorySource interface {
	Name() string
	Historical(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint]
}

type BedsSource interface {
	Name() string
	Beds(ctx context.Context) domain.SourceResult[domain.BedAvailability]
}

type ResourceSource interface {
	Name() string
	Resources(ctx context.Context) domain.SourceResult[[]domain.Resource]
}

type AlertSource interface {
	Name() string
	Alerts(ctx context.Context) domain.SourceResult[[]domain.Alert]
}

// Sources lists the adapters of each dataset in priority order, highest first.
type Sources struct {
	Stats     []StatsSource
	History   []HistorySource
	Beds      []BedsSource
	Resources []ResourceSource
	Alerts    []AlertSource
}

type SnapshotLoader interface {
	Load(ctx context.Context) (*fallback.Snapshot, error)
}

type Config struct {
	// MaxRetries is how many extra attempts a failing source gets within one fetch.
	MaxRetries    int
	RetryInterval time.Duration
}

type Service struct {
	sources  Sources
	datasets *cache.Cache
	alerts   *cache.Cache
	snapshot SnapshotLoader
	cfg      Config

	inflight singleflight.Group

	// generation is bumped by every invalidation; fetches started under an older one are not cached.
	mx         sync.Mutex
	generation uint64
}

// NewAggregatorService wires the adapters to the caches. datasets holds the four dashboard
// datasets and is cleared by RefreshAll; alerts has its own, usually shorter, TTL.
func NewAggregatorService(sources Sources, datasets, alerts *cache.Cache, snapshot SnapshotLoader, cfg Config) *Service {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	return &Service{
		sources:  sources,
		datasets: datasets,
		alerts:   alerts,
		snapshot: snapshot,
		cfg:      cfg,
	}
}

// SourceNames reports the configured adapters per dataset in priority order.
func (s *Service) SourceNames() map[string][]string {
	return map[string][]string{
		"currentStats":    names(s.sources.Stats),
		"historicalData":  names(s.sources.History),
		"bedAvailability": names(s.sources.Beds),
		"resources":       names(s.sources.Resources),
		"alerts":          names(s.sources.Alerts),
	}
}

func (s *Service) CurrentStats(ctx context.Context) domain.SourceResult[domain.StatRecord] {
	return load(ctx, s, s.datasets, constants.CacheKeyCurrentStats, func(ctx context.Context) domain.SourceResult[domain.StatRecord] {
		results := fanOut(ctx, s.cfg, s.sources.Stats, StatsSource.CurrentStats)

		merged, contributors := mergeStats(results)
		if merged.TotalHomeless == 0 {
			logger.Warnf(ctx, "no source returned current stats, using fallback")
			return s.statsFallback(ctx)
		}

		deriveStatPercentages(&merged)
		return domain.OK(sourceLabel(contributors), merged)
	})
}

func (s *Service) Historical(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint] {
	return load(ctx, s, s.datasets, constants.CacheKeyHistorical, func(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint] {
		results := fanOut(ctx, s.cfg, s.sources.History, HistorySource.Historical)

		series, contributors := mergeHistory(results)
		if len(series) == 0 {
			logger.Warnf(ctx, "no source returned historical data, using fallback")
			return s.historyFallback(ctx)
		}
		return domain.OK(sourceLabel(contributors), series)
	})
}

func (s *Service) Beds(ctx context.Context) domain.SourceResult[domain.BedAvailability] {
	return load(ctx, s, s.datasets, constants.CacheKeyBeds, func(ctx context.Context) domain.SourceResult[domain.BedAvailability] {
		results := fanOut(ctx, s.cfg, s.sources.Beds, BedsSource.Beds)

		merged, contributors := mergeBeds(results)
		if merged.Total == 0 {
			logger.Warnf(ctx, "no source returned bed availability, using fallback")
			return s.bedsFallback(ctx)
		}

		deriveOccupancy(&merged)
		return domain.OK(sourceLabel(contributors), merged)
	})
}

func (s *Service) Resources(ctx context.Context) domain.SourceResult[[]domain.Resource] {
	return load(ctx, s, s.datasets, constants.CacheKeyResources, func(ctx context.Context) domain.SourceResult[[]domain.Resource] {
		results := fanOut(ctx, s.cfg, s.sources.Resources, ResourceSource.Resources)

		merged, contributors := mergeResources(results)
		if len(merged) == 0 {
			logger.Warnf(ctx, "no source returned resources, using fallback")
			return s.resourcesFallback(ctx)
		}
		return domain.OK(sourceLabel(contributors), merged)
	})
}

// Alerts merges every alert source. Unlike the other datasets an empty list is a valid answer;
// the fallback (an empty list) is only used when no source succeeded.
func (s *Service) Alerts(ctx context.Context) domain.SourceResult[[]domain.Alert] {
	return load(ctx, s, s.alerts, constants.CacheKeyAlerts, func(ctx context.Context) domain.SourceResult[[]domain.Alert] {
		results := fanOut(ctx, s.cfg, s.sources.Alerts, AlertSource.Alerts)

		merged, contributors := mergeAlerts(results)
		if len(contributors) == 0 {
			logger.Warnf(ctx, "no alert source succeeded")
			return domain.Fallback(constants.FallbackTierHardcoded, []domain.Alert{})
		}
		return domain.OK(sourceLabel(contributors), merged)
	})
}

// ImpactMetrics is only published in the static snapshot.
func (s *Service) ImpactMetrics(ctx context.Context) domain.SourceResult[domain.ImpactMetrics] {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return domain.Fallback(constants.FallbackTierHardcoded, fallback.Hardcoded().ImpactMetrics)
	}
	return domain.OK(constants.SourceFallback, snap.ImpactMetrics)
}

// RefreshAll drops every cached dataset and fetches all four again concurrently.
func (s *Service) RefreshAll(ctx context.Context) (domain.Bundle, error) {
	s.invalidate(s.datasets, constants.CacheKeyCurrentStats, constants.CacheKeyHistorical, constants.CacheKeyBeds, constants.CacheKeyResources)

	var bundle domain.Bundle
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		bundle.CurrentStats = s.CurrentStats(egCtx)
		return nil
	})
	eg.Go(func() error {
		bundle.Historical = s.Historical(egCtx)
		return nil
	})
	eg.Go(func() error {
		bundle.Beds = s.Beds(egCtx)
		return nil
	})
	eg.Go(func() error {
		bundle.Resources = s.Resources(egCtx)
		return nil
	})
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return bundle, fmt.Errorf("refresh all: %w", err)
	}

	bundle.Timestamp = time.Now().UTC()
	return bundle, nil
}

func (s *Service) RefreshAlerts(ctx context.Context) (domain.SourceResult[[]domain.Alert], error) {
	s.invalidate(s.alerts, constants.CacheKeyAlerts)

	res := s.Alerts(ctx)
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("refresh alerts: %w", err)
	}
	return res, nil
}

// InvalidateResources drops the cached resource directory so the next read sees store changes.
func (s *Service) InvalidateResources() {
	s.mx.Lock()
	s.generation++
	s.datasets.Delete(constants.CacheKeyResources)
	s.mx.Unlock()

	s.inflight.Forget(constants.CacheKeyResources)
}

func (s *Service) invalidate(c *cache.Cache, keys ...string) {
	s.mx.Lock()
	s.generation++
	c.Clear()
	s.mx.Unlock()

	for _, k := range keys {
		s.inflight.Forget(k)
	}
}

func (s *Service) currentGeneration() uint64 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.generation
}

func (s *Service) setIfCurrent(c *cache.Cache, gen uint64, key string, v any) {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.generation == gen {
		c.Set(key, v)
	}
}

func (s *Service) loadSnapshot(ctx context.Context) (*fallback.Snapshot, error) {
	if s.snapshot == nil {
		return nil, errors.New("no snapshot configured")
	}
	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		logger.Errorf(ctx, "load fallback snapshot: %s", err.Error())
		return nil, err
	}
	return snap, nil
}

func (s *Service) statsFallback(ctx context.Context) domain.SourceResult[domain.StatRecord] {
	tier, rec := constants.FallbackTierHardcoded, fallback.Hardcoded().CurrentStats
	if snap, err := s.loadSnapshot(ctx); err == nil {
		tier, rec = constants.FallbackTierSnapshot, snap.CurrentStats
	}
	deriveStatPercentages(&rec)
	return domain.Fallback(tier, rec)
}

func (s *Service) historyFallback(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint] {
	if snap, err := s.loadSnapshot(ctx); err == nil && len(snap.HistoricalData) > 0 {
		return domain.Fallback(constants.FallbackTierSnapshot, sortedHistory(snap.HistoricalData))
	}
	return domain.Fallback(constants.FallbackTierHardcoded, fallback.Hardcoded().HistoricalData)
}

func (s *Service) bedsFallback(ctx context.Context) domain.SourceResult[domain.BedAvailability] {
	tier, beds := constants.FallbackTierHardcoded, fallback.Hardcoded().BedAvailability
	if snap, err := s.loadSnapshot(ctx); err == nil && snap.BedAvailability.Total > 0 {
		tier, beds = constants.FallbackTierSnapshot, snap.BedAvailability
	}
	deriveOccupancy(&beds)
	return domain.Fallback(tier, beds)
}

func (s *Service) resourcesFallback(ctx context.Context) domain.SourceResult[[]domain.Resource] {
	if snap, err := s.loadSnapshot(ctx); err == nil && len(snap.Resources) > 0 {
		return domain.Fallback(constants.FallbackTierSnapshot, snap.Resources)
	}
	return domain.Fallback(constants.FallbackTierHardcoded, fallback.Hardcoded().Resources)
}
