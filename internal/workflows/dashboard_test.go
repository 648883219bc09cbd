package workflows

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/usecases"
)

type fakeTripRepo struct {
	trips []domain.Trip
	err   error
	calls atomic.Int32
}

func (r *fakeTripRepo) Count(ctx context.Context, f domain.TripFilter) (int, error) {
	return len(r.trips), r.err
}
func (r *fakeTripRepo) FindMany(ctx context.Context, f domain.TripFilter, order domain.TripOrder, skip, take int) ([]domain.Trip, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Trip
	for _, t := range r.trips {
		if t.UserID == f.OwnerID {
			out = append(out, t)
		}
	}
	return out, nil
}
func (r *fakeTripRepo) Create(ctx context.Context, t *domain.Trip) error { return nil }
func (r *fakeTripRepo) UpdateMany(ctx context.Context, f domain.TripFilter, in domain.TripInput) (int64, error) {
	return 0, nil
}
func (r *fakeTripRepo) DeleteMany(ctx context.Context, f domain.TripFilter) (int64, error) {
	return 0, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}
func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = value
	return nil
}
func (c *fakeCache) Delete(ctx context.Context, key string) error { return nil }

type fakePublisher struct {
	mu     sync.Mutex
	owners []string
}

func (p *fakePublisher) PublishTripEvent(ctx context.Context, e domain.TripEvent) error { return nil }
func (p *fakePublisher) PublishDashboardRefreshed(ctx context.Context, ownerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.owners = append(p.owners, ownerID)
	return nil
}

func newEnv(t *testing.T, repo *fakeTripRepo, cache *fakeCache, pub *fakePublisher) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DashboardRefreshWorkflow)
	env.RegisterActivity(&DashboardActivities{
		Dashboards: usecases.NewDashboardService(repo, cache, time.UTC, 60),
		Publisher:  pub,
	})
	return env
}

func TestDashboardRefresh_WarmsCacheAndPublishes(t *testing.T) {
	price := 99.5
	repo := &fakeTripRepo{trips: []domain.Trip{
		{ID: "1", UserID: "alice", Status: domain.TripStatusCompleted, TotalPrice: &price, CreatedAt: time.Now()},
		{ID: "2", UserID: "bob", Status: domain.TripStatusUpcoming, CreatedAt: time.Now()},
	}}
	cache := &fakeCache{}
	pub := &fakePublisher{}
	env := newEnv(t, repo, cache, pub)

	env.ExecuteWorkflow(DashboardRefreshWorkflow, DashboardRefreshInput{OwnerID: "alice"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Contains(t, string(cache.data[usecases.DashboardCacheKey("alice")]), `"total_revenue":99.5`)
	assert.Equal(t, []string{"alice"}, pub.owners)
}

func TestDashboardRefresh_CacheFailureDoesNotFail(t *testing.T) {
	repo := &fakeTripRepo{}
	cache := &fakeCache{err: errors.New("valkey down")}
	pub := &fakePublisher{}
	env := newEnv(t, repo, cache, pub)

	env.ExecuteWorkflow(DashboardRefreshWorkflow, DashboardRefreshInput{OwnerID: "alice"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, []string{"alice"}, pub.owners)
}

func TestDashboardRefresh_ComputeRetriesThenFails(t *testing.T) {
	repo := &fakeTripRepo{err: errors.New("connection refused")}
	pub := &fakePublisher{}
	env := newEnv(t, repo, &fakeCache{}, pub)

	env.ExecuteWorkflow(DashboardRefreshWorkflow, DashboardRefreshInput{OwnerID: "alice"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, int32(3), repo.calls.Load())
	assert.Empty(t, pub.owners)
}

func TestDashboardRefresh_MissingOwnerIsNotRetried(t *testing.T) {
	env := newEnv(t, &fakeTripRepo{}, &fakeCache{}, &fakePublisher{})

	env.ExecuteWorkflow(DashboardRefreshWorkflow, DashboardRefreshInput{})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "validation", appErr.Type())
}

func TestRefresher_StartsWorkflowPerOwner(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything,
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
			return o.ID == "dashboard-refresh-alice" && o.TaskQueue == "dashboard-refresh"
		}),
		mock.Anything,
		DashboardRefreshInput{OwnerID: "alice"},
	).Return(&mocks.WorkflowRun{}, nil).Once()

	r := NewRefresher(c, "dashboard-refresh")
	require.NoError(t, r.RefreshDashboard(context.Background(), "alice"))
	c.AssertExpectations(t)

	err := r.RefreshDashboard(context.Background(), "")
	assert.True(t, domain.IsValidation(err))
}

func TestRefresher_ReplacesRunningRefresh(t *testing.T) {
	c := &mocks.Client{}
	var policies []enumspb.WorkflowIdReusePolicy
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			policies = append(policies, args.Get(1).(client.StartWorkflowOptions).WorkflowIDReusePolicy)
		}).
		Return(&mocks.WorkflowRun{}, nil).Twice()

	r := NewRefresher(c, "dashboard-refresh")
	require.NoError(t, r.RefreshDashboard(context.Background(), "alice"))
	require.NoError(t, r.RefreshDashboard(context.Background(), "alice"))

	c.AssertExpectations(t)
	assert.Equal(t, []enumspb.WorkflowIdReusePolicy{
		enumspb.WORKFLOW_ID_REUSE_POLICY_TERMINATE_IF_RUNNING,
		enumspb.WORKFLOW_ID_REUSE_POLICY_TERMINATE_IF_RUNNING,
	}, policies)
}
