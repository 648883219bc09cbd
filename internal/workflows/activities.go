package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/core/usecases"
	"github.com/planora/backoffice/internal/pkg/logging"
)

// DashboardActivities holds the activity implementations for the
// dashboard refresh workflow.
type DashboardActivities struct {
	Dashboards *usecases.DashboardService
	Publisher  ports.EventPublisher
}

// ComputeDashboard aggregates the owner's trips. Invalid input is not retried.
func (a *DashboardActivities) ComputeDashboard(ctx context.Context, ownerID string) (*domain.Dashboard, error) {
	d, err := a.Dashboards.Compute(ctx, ownerID)
	if err != nil {
		if domain.IsValidation(err) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "validation", err)
		}
		return nil, fmt.Errorf("compute dashboard: %w", err)
	}
	return d, nil
}

// CacheDashboard writes the computed dashboard to the cache.
func (a *DashboardActivities) CacheDashboard(ctx context.Context, ownerID string, d *domain.Dashboard) error {
	if err := a.Dashboards.Store(ctx, ownerID, d); err != nil {
		return fmt.Errorf("cache dashboard %s: %w", ownerID, err)
	}
	return nil
}

// PublishDashboardRefreshed tells connected clients the dashboard changed.
func (a *DashboardActivities) PublishDashboardRefreshed(ctx context.Context, ownerID string) error {
	if a.Publisher == nil {
		logging.FromContext(ctx).Info("dashboard refreshed (no publisher)", "owner", ownerID)
		return nil
	}
	if err := a.Publisher.PublishDashboardRefreshed(ctx, ownerID); err != nil {
		return fmt.Errorf("publish dashboard refreshed %s: %w", ownerID, err)
	}
	return nil
}
