package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/planora/backoffice/internal/adapters/http"
	natsadapter "github.com/planora/backoffice/internal/adapters/nats"
	"github.com/planora/backoffice/internal/adapters/postgres"
	"github.com/planora/backoffice/internal/adapters/valkey"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/core/usecases"
	"github.com/planora/backoffice/internal/pkg/config"
	"github.com/planora/backoffice/internal/pkg/logging"
	"github.com/planora/backoffice/internal/pkg/metrics"
	"github.com/planora/backoffice/internal/pkg/telemetry"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load("planora-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret is required (PLANORA_AUTH_JWT_SECRET)")
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, os.Getenv("LOG_FORMAT"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
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

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache (optional)
	var cache ports.CacheService
	var cachePinger http.Pinger
	vc, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer vc.Close()
		cache, cachePinger = vc, vc
	}

	// NATS (optional)
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Repos
	tripRepo := postgres.NewTripRepo(db)
	destinationRepo := postgres.NewDestinationRepo(db)

	// Use cases
	deps := &http.Dependencies{
		Trips:        usecases.NewTripService(tripRepo, cache, publisher),
		Dashboards:   usecases.NewDashboardService(tripRepo, cache, loc, cfg.Dashboard.CacheTTL),
		Destinations: usecases.NewDestinationService(destinationRepo, cache),
		Auth:         http.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		NATS:         natsConn,
		DB:           db,
		Cache:        cachePinger,
		PageSize:     cfg.Trips.PageSize,
		MaxPageSize:  cfg.Trips.MaxPageSize,
		OpenAPIPath:  cfg.Server.OpenAPIPath,
	}

	// Pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Planora Back Office API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Link, Location, ETag",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
