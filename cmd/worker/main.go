package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/planora/backoffice/internal/adapters/nats"
	"github.com/planora/backoffice/internal/adapters/postgres"
	"github.com/planora/backoffice/internal/adapters/valkey"
	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/core/usecases"
	"github.com/planora/backoffice/internal/pkg/config"
	"github.com/planora/backoffice/internal/pkg/logging"
	"github.com/planora/backoffice/internal/pkg/telemetry"
	"github.com/planora/backoffice/internal/workflows"
)

const durableName = "dashboard-refresher"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("planora-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		log.Fatalf("dashboard timezone: %v", err)
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, dashboards will not be cached", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.DashboardRefreshWorkflow)
	w.RegisterActivity(&workflows.DashboardActivities{
		Dashboards: usecases.NewDashboardService(postgres.NewTripRepo(db), cache, loc, cfg.Dashboard.CacheTTL),
		Publisher:  pub,
	})

	// Every trip mutation schedules a refresh of the owner's dashboard
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, durableName)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	var refresher ports.DashboardRefresher = workflows.NewRefresher(c, cfg.Temporal.TaskQueue)
	err = sub.SubscribeTripEvents(ctx, func(ctx context.Context, e domain.TripEvent) error {
		return refresher.RefreshDashboard(ctx, e.OwnerID)
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("dashboard worker started", "taskQueue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
