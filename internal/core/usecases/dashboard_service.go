package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/pkg/logging"
	"github.com/planora/backoffice/internal/pkg/metrics"
	"github.com/planora/backoffice/internal/pkg/telemetry"
)

// DashboardCacheKey is the cache key holding an owner's dashboard.
func DashboardCacheKey(ownerID string) string {
	return "dashboard:" + ownerID
}

// DashboardService loads an owner's trips and aggregates them.
type DashboardService struct {
	trips ports.TripRepository
	cache ports.CacheService
	loc   *time.Location
	ttl   int
	now   func() time.Time
}

// NewDashboardService creates a new DashboardService. cache may be nil;
// ttlSeconds <= 0 disables caching.
func NewDashboardService(trips ports.TripRepository, cache ports.CacheService, loc *time.Location, ttlSeconds int) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{trips: trips, cache: cache, loc: loc, ttl: ttlSeconds, now: time.Now}
}

// WithClock returns a copy of s using now as its clock.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	c := *s
	c.now = now
	return &c
}

// Get returns the owner's dashboard, from cache when fresh.
func (s *DashboardService) Get(ctx context.Context, ownerID string) (*domain.Dashboard, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "is required")
	}

	if s.cachingEnabled() {
		if data, err := s.cache.Get(ctx, DashboardCacheKey(ownerID)); err == nil && len(data) > 0 {
			var d domain.Dashboard
			if json.Unmarshal(data, &d) == nil {
				metrics.CacheHits.WithLabelValues("dashboard").Inc()
				return &d, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("dashboard").Inc()
	}

	d, err := s.Compute(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.Store(ctx, ownerID, d); err != nil {
		logging.FromContext(ctx).Warn("dashboard cache store", "owner", ownerID, "error", err)
	}
	return d, nil
}

// Compute aggregates the owner's trips without consulting the cache.
func (s *DashboardService) Compute(ctx context.Context, ownerID string) (*domain.Dashboard, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDashboardBuild)
	defer span.End()

	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "is required")
	}

	start := time.Now()
	defer func() { metrics.DashboardComputeDuration.Observe(time.Since(start).Seconds()) }()

	trips, err := s.trips.FindMany(ctx, domain.TripFilter{OwnerID: ownerID}, domain.OrderNewestFirst, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}

	d := BuildDashboard(trips, s.now(), s.loc)
	return &d, nil
}

// Store caches d for the owner. It is a no-op when caching is disabled.
func (s *DashboardService) Store(ctx context.Context, ownerID string, d *domain.Dashboard) error {
	if !s.cachingEnabled() {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}
	return s.cache.Set(ctx, DashboardCacheKey(ownerID), data, s.ttl)
}

func (s *DashboardService) cachingEnabled() bool {
	return s.cache != nil && s.ttl > 0
}
