package main

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/planora/backoffice/internal/adapters/postgres"
	"github.com/planora/backoffice/internal/adapters/valkey"
	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/core/usecases"
	"github.com/planora/backoffice/internal/pkg/config"
	"github.com/planora/backoffice/internal/pkg/logging"
)

// manifest is the on-disk seed format.
type manifest struct {
	Destinations []manifestDestination `json:"destinations"`
}

type manifestDestination struct {
	domain.Destination
	Events []manifestEvent `json:"events"`
}

type manifestEvent struct {
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Price          *float64  `json:"price"`
	AvailableSeats *int      `json:"available_seats"`
}

func main() {
	manifestPath := "seed/destinations.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	_ = godotenv.Load()
	logging.Setup(os.Getenv("LOG_LEVEL"), "text")

	cfg, err := config.Load("planora-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dests, events, err := loadManifest(manifestPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("manifest not found, seeding built-in catalog", "file", manifestPath)
		dests, events = usecases.FallbackDestinations(), nil
	case err != nil:
		log.Fatalf("manifest: %v", err)
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// The list cache is dropped after import when valkey is reachable.
	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, cache not invalidated", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	svc := usecases.NewDestinationService(postgres.NewDestinationRepo(db), cache)
	if err := svc.Import(ctx, dests, events); err != nil {
		log.Fatalf("import: %v", err)
	}

	n := 0
	for _, evs := range events {
		n += len(evs)
	}
	slog.Info("seed complete", "destinations", len(dests), "events", n)
}

func loadManifest(path string) ([]domain.Destination, map[string][]domain.DestinationEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, err
	}

	dests := make([]domain.Destination, 0, len(m.Destinations))
	events := make(map[string][]domain.DestinationEvent)
	for _, md := range m.Destinations {
		if md.Slug == "" {
			return nil, nil, errors.New("destination without slug")
		}
		dests = append(dests, md.Destination)
		for _, me := range md.Events {
			events[md.Slug] = append(events[md.Slug], domain.DestinationEvent{
				Title:          me.Title,
				StartTime:      me.StartTime,
				EndTime:        me.EndTime,
				Price:          me.Price,
				AvailableSeats: me.AvailableSeats,
			})
		}
	}
	return dests, events, nil
}
