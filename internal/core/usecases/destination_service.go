package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/pkg/logging"
	"github.com/planora/backoffice/internal/pkg/metrics"
	"github.com/planora/backoffice/internal/pkg/telemetry"
)

const (
	// PackageCount is the number of packages shown per destination.
	PackageCount = 20

	destinationListKey = "destinations:list"
	destinationListTTL = 3600
)

// DestinationService serves the destination catalog, falling back to a
// built-in list when the database has none.
type DestinationService struct {
	repo  ports.DestinationRepository
	cache ports.CacheService
	now   func() time.Time
}

// NewDestinationService creates a new DestinationService. cache may be nil.
func NewDestinationService(repo ports.DestinationRepository, cache ports.CacheService) *DestinationService {
	return &DestinationService{repo: repo, cache: cache, now: time.Now}
}

// WithClock returns a copy of s using now as its clock.
func (s *DestinationService) WithClock(now func() time.Time) *DestinationService {
	c := *s
	c.now = now
	return &c
}

// List returns the catalog ordered by name. When the table is empty the
// built-in catalog is returned instead.
func (s *DestinationService) List(ctx context.Context) ([]domain.Destination, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDestinationsList)
	defer span.End()

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, destinationListKey); err == nil && len(data) > 0 {
			var list []domain.Destination
			if json.Unmarshal(data, &list) == nil {
				metrics.CacheHits.WithLabelValues("destinations").Inc()
				return list, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("destinations").Inc()
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	if len(list) == 0 {
		// Not cached so real rows show up as soon as they are seeded.
		return FallbackDestinations(), nil
	}

	if s.cache != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, destinationListKey, data, destinationListTTL); err != nil {
				logging.FromContext(ctx).Warn("destination list cache store", "error", err)
			}
		}
	}
	return list, nil
}

// Detail returns a destination and up to PackageCount packages. Unknown
// slugs still get a page with generated packages.
func (s *DestinationService) Detail(ctx context.Context, slug string) (*domain.DestinationDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDestinationsDetail, attribute.String("slug", slug))
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("destination: %w", domain.ErrNotFound)
	}

	dest, err := s.repo.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		dest = nil
	case err != nil:
		return nil, fmt.Errorf("get destination %s: %w", slug, err)
	}

	var packages []domain.TravelPackage
	if dest != nil && dest.ID != "" {
		events, err := s.repo.ListEvents(ctx, dest.ID, PackageCount)
		if err != nil {
			return nil, fmt.Errorf("list events %s: %w", slug, err)
		}
		packages = eventPackages(events, strings.ToUpper(dest.Name))
	}

	d := domain.Destination{Slug: slug, Name: slug, City: slug, Country: "Worldwide"}
	if dest != nil {
		d = *dest
	}

	if len(packages) == 0 {
		packages = GeneratePackages(slug, strings.ToUpper(d.Name), s.now())
	}
	return &domain.DestinationDetail{Destination: d, Packages: packages}, nil
}

// eventPackages maps scheduled events onto packages.
func eventPackages(events []domain.DestinationEvent, displayName string) []domain.TravelPackage {
	out := make([]domain.TravelPackage, 0, len(events))
	for i, e := range events {
		hotel := e.Title
		if hotel == "" {
			hotel = displayName + " HOTEL"
		}
		var price float64
		if e.Price != nil {
			price = *e.Price
		}
		var spots int
		if e.AvailableSeats != nil {
			spots = *e.AvailableSeats
		}
		num := strconv.Itoa(100000 + i)
		out = append(out, domain.TravelPackage{
			ID:             e.ID,
			Title:          e.Title,
			HotelName:      hotel,
			FlightNumber:   "PL" + num[len(num)-5:],
			PackageType:    "EXPERIENCE",
			StartDate:      e.StartTime,
			EndDate:        e.EndTime,
			Price:          price,
			AvailableSpots: spots,
		})
	}
	return out
}

// GeneratePackages builds the placeholder packages for a destination
// without scheduled events. Package i starts 7+3i days after at and
// lasts seven days.
func GeneratePackages(slug, displayName string, at time.Time) []domain.TravelPackage {
	baseName := displayName
	if baseName == "" {
		baseName = titleFromSlug(slug)
	}

	out := make([]domain.TravelPackage, 0, PackageCount)
	for i := 0; i < PackageCount; i++ {
		start := at.AddDate(0, 0, 7+3*i)
		pkg := fallbackPackageTypes[i%len(fallbackPackageTypes)]
		out = append(out, domain.TravelPackage{
			ID:             fmt.Sprintf("%s-fallback-%d", slug, i+1),
			Title:          fmt.Sprintf("%s %s Package", baseName, pkg),
			HotelName:      fallbackHotels[i%len(fallbackHotels)],
			FlightNumber:   fallbackFlights[i%len(fallbackFlights)],
			PackageType:    pkg,
			StartDate:      start,
			EndDate:        start.AddDate(0, 0, 7),
			Price:          float64(250 + 15*i),
			AvailableSpots: 5 + i%8,
		})
	}
	return out
}

func titleFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		if size > 0 {
			parts[i] = string(unicode.ToUpper(r)) + p[size:]
		}
	}
	return strings.Join(parts, " ")
}

// Import upserts destinations and their events. Used by the seeder.
func (s *DestinationService) Import(ctx context.Context, dests []domain.Destination, events map[string][]domain.DestinationEvent) error {
	for i := range dests {
		d := &dests[i]
		if err := s.repo.Upsert(ctx, d); err != nil {
			return fmt.Errorf("upsert destination %s: %w", d.Slug, err)
		}
		for j := range events[d.Slug] {
			e := &events[d.Slug][j]
			e.DestinationID = d.ID
			if err := s.repo.UpsertEvent(ctx, e); err != nil {
				return fmt.Errorf("upsert event %s/%s: %w", d.Slug, e.Title, err)
			}
		}
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, destinationListKey); err != nil {
			logging.FromContext(ctx).Warn("destination list cache invalidate", "error", err)
		}
	}
	return nil
}
