package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/planora/backoffice/internal/pkg/metrics"
)

const routeTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, no auth)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.OpenAPIPath)

	auth := RequireAuth(deps.Auth)

	// REST API v1, authenticated, 15s per-request timeout
	v1 := app.Group("/v1", auth)
	v1.Get("/trips", timeout.NewWithContext(ListTripsHandler(deps), routeTimeout))
	v1.Post("/trips", timeout.NewWithContext(CreateTripHandler(deps), routeTimeout))
	v1.Post("/trips/quick-book", timeout.NewWithContext(QuickBookHandler(deps), routeTimeout))
	v1.Get("/trips/:id", timeout.NewWithContext(GetTripHandler(deps), routeTimeout))
	v1.Put("/trips/:id", timeout.NewWithContext(UpdateTripHandler(deps), routeTimeout))
	v1.Delete("/trips/:id", timeout.NewWithContext(DeleteTripHandler(deps), routeTimeout))
	v1.Get("/dashboard", timeout.NewWithContext(DashboardHandler(deps), routeTimeout))
	v1.Get("/destinations", timeout.NewWithContext(ListDestinationsHandler(deps), routeTimeout))
	v1.Get("/destinations/:slug", timeout.NewWithContext(GetDestinationHandler(deps), routeTimeout))

	// GraphQL
	app.Post("/graphql", auth, GraphQLHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", auth, WebSocketUpgrade(deps.NATS))
}
