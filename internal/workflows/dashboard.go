package workflows

import (
	"context"
	"fmt"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/planora/backoffice/internal/core/domain"
)

// DashboardRefreshInput is the input for the dashboard refresh workflow.
type DashboardRefreshInput struct {
	OwnerID string
}

// WorkflowID returns the workflow id used for an owner's refresh. At most
// one refresh runs per owner.
func WorkflowID(ownerID string) string {
	return "dashboard-refresh-" + ownerID
}

// DashboardRefreshWorkflow recomputes an owner's dashboard, warms the
// cache and notifies subscribers. A failed cache write is logged and
// does not fail the workflow.
func DashboardRefreshWorkflow(ctx workflow.Context, input DashboardRefreshInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting dashboard refresh", "owner", input.OwnerID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Aggregate
	var d domain.Dashboard
	if err := workflow.ExecuteActivity(ctx, "ComputeDashboard", input.OwnerID).Get(ctx, &d); err != nil {
		return err
	}

	// Step 2: Warm the cache, best effort
	cacheCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	if err := workflow.ExecuteActivity(cacheCtx, "CacheDashboard", input.OwnerID, &d).Get(ctx, nil); err != nil {
		logger.Warn("dashboard cache write failed", "owner", input.OwnerID, "error", err)
	}

	// Step 3: Notify
	if err := workflow.ExecuteActivity(ctx, "PublishDashboardRefreshed", input.OwnerID).Get(ctx, nil); err != nil {
		return err
	}

	logger.Info("Dashboard refreshed", "owner", input.OwnerID, "totalTrips", d.TotalTrips)
	return nil
}

// Refresher starts dashboard refresh workflows on a Temporal cluster.
type Refresher struct {
	client    client.Client
	taskQueue string
}

// NewRefresher creates a Refresher submitting to taskQueue.
func NewRefresher(c client.Client, taskQueue string) *Refresher {
	return &Refresher{client: c, taskQueue: taskQueue}
}

// RefreshDashboard starts a refresh for the owner. A refresh already
// running may have aggregated before the latest mutation, so it is
// terminated and replaced rather than joined.
func (r *Refresher) RefreshDashboard(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return domain.NewValidationError("owner_id", "is required")
	}
	opts := client.StartWorkflowOptions{
		ID:                    WorkflowID(ownerID),
		TaskQueue:             r.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_TERMINATE_IF_RUNNING,
	}
	if _, err := r.client.ExecuteWorkflow(ctx, opts, DashboardRefreshWorkflow, DashboardRefreshInput{OwnerID: ownerID}); err != nil {
		return fmt.Errorf("start dashboard refresh for %s: %w", ownerID, err)
	}
	return nil
}
