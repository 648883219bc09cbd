package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/planora/backoffice/internal/core/usecases"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Trips        *usecases.TripService
	Dashboards   *usecases.DashboardService
	Destinations *usecases.DestinationService
	Auth         *Authenticator
	NATS         *nats.Conn
	DB           Pinger
	Cache        Pinger

	// PageSize is the default trip page size; MaxPageSize caps page_size.
	PageSize    int
	MaxPageSize int
	OpenAPIPath string
}
