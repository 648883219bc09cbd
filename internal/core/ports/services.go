package ports

import (
	"context"

	"github.com/planora/backoffice/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishTripEvent(ctx context.Context, event domain.TripEvent) error
	PublishDashboardRefreshed(ctx context.Context, ownerID string) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeTripEvents(ctx context.Context, handler func(ctx context.Context, event domain.TripEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// DashboardRefresher schedules an asynchronous recomputation of an
// owner's dashboard.
type DashboardRefresher interface {
	RefreshDashboard(ctx context.Context, ownerID string) error
}
