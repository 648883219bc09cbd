package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/pkg/logging"
	"github.com/planora/backoffice/internal/pkg/metrics"
	"github.com/planora/backoffice/internal/pkg/telemetry"
)

// TripQuery describes one page of an owner's trip listing.
type TripQuery struct {
	OwnerID  string
	Search   string
	Page     int
	PageSize int
}

// QuickBookInput is the reduced booking form. Only the destination is
// required; everything else falls back to a default.
type QuickBookInput struct {
	TravelerName       string            `json:"traveler_name"`
	DestinationCity    string            `json:"destination_city"`
	DestinationCountry string            `json:"destination_country"`
	HotelName          string            `json:"hotel_name"`
	FlightNumber       string            `json:"flight_number"`
	PackageType        string            `json:"package_type"`
	TotalPrice         *float64          `json:"total_price"`
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `json:"end_date"`
	Status             domain.TripStatus `json:"status"`
}

// TripService answers trip queries and applies owner-scoped mutations.
type TripService struct {
	trips     ports.TripRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	now       func() time.Time
	newID     func() string
}

// TripServiceOption configures a TripService.
type TripServiceOption func(*TripService)

// WithTripClock overrides the clock used for created_at and event times.
func WithTripClock(now func() time.Time) TripServiceOption {
	return func(s *TripService) { s.now = now }
}

// WithTripIDs overrides the trip id generator.
func WithTripIDs(newID func() string) TripServiceOption {
	return func(s *TripService) { s.newID = newID }
}

// NewTripService creates a new TripService. cache and publisher may be nil.
func NewTripService(trips ports.TripRepository, cache ports.CacheService, publisher ports.EventPublisher, opts ...TripServiceOption) *TripService {
	s := &TripService{
		trips:     trips,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TotalPages returns the number of pages needed for totalCount rows. An
// empty result still has one page.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}

// List returns one page of the owner's trips, newest first. A page past
// the end yields an empty list with correct totals.
func (s *TripService) List(ctx context.Context, q TripQuery) (*domain.TripPage, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanTripsList,
		attribute.Int("page", q.Page), attribute.Int("page_size", q.PageSize))
	defer span.End()

	if q.OwnerID == "" {
		return nil, domain.NewValidationError("owner_id", "is required")
	}
	if q.PageSize <= 0 {
		return nil, domain.NewValidationError("page_size", "must be positive")
	}
	if q.Page < 1 {
		return nil, domain.NewValidationError("page", "must be at least 1")
	}

	filter := domain.TripFilter{OwnerID: q.OwnerID, Search: strings.TrimSpace(q.Search)}

	total, err := s.trips.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count trips: %w", err)
	}
	totalPages := TotalPages(total, q.PageSize)

	// Past the last page there is nothing to fetch. Returning early also
	// keeps (page-1)*pageSize from overflowing for huge page numbers.
	items := []domain.Trip{}
	if q.Page <= totalPages {
		found, err := s.trips.FindMany(ctx, filter, domain.OrderNewestFirst, (q.Page-1)*q.PageSize, q.PageSize)
		if err != nil {
			return nil, fmt.Errorf("find trips: %w", err)
		}
		if found != nil {
			items = found
		}
	}

	return &domain.TripPage{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

// Get returns a single trip owned by ownerID.
func (s *TripService) Get(ctx context.Context, ownerID, tripID string) (*domain.Trip, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanTripsGet, attribute.String("trip.id", tripID))
	defer span.End()

	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "is required")
	}
	if tripID == "" {
		return nil, fmt.Errorf("trip: %w", domain.ErrNotFound)
	}

	trips, err := s.trips.FindMany(ctx, domain.TripFilter{OwnerID: ownerID, ID: tripID}, domain.OrderNewestFirst, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("find trip: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
	}
	return &trips[0], nil
}

// Create validates in and stores a new trip for ownerID.
func (s *TripService) Create(ctx context.Context, ownerID string, in domain.TripInput) (*domain.Trip, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanTripsCreate)
	defer span.End()
	return s.create(ctx, "create", ownerID, in)
}

// QuickBook creates a trip from the reduced booking form. The traveler
// name falls back to the user's display name, then the submitted value,
// then "Traveler".
func (s *TripService) QuickBook(ctx context.Context, user domain.User, in QuickBookInput) (*domain.Trip, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanTripsQuickBook)
	defer span.End()

	return s.create(ctx, "quick_book", user.ID, QuickBookTripInput(user, in))
}

// QuickBookTripInput applies the quick-book defaults to in.
func QuickBookTripInput(user domain.User, in QuickBookInput) domain.TripInput {
	traveler := strings.TrimSpace(user.Name)
	if traveler == "" {
		traveler = strings.TrimSpace(in.TravelerName)
	}
	if traveler == "" {
		traveler = "Traveler"
	}

	packageType := strings.TrimSpace(in.PackageType)
	if packageType == "" {
		packageType = domain.DefaultPackageType
	}
	status := in.Status
	if strings.TrimSpace(string(status)) == "" {
		status = domain.TripStatusUpcoming
	}
	var price float64
	if in.TotalPrice != nil {
		price = *in.TotalPrice
	}

	return domain.TripInput{
		TravelerName:       traveler,
		DestinationCity:    in.DestinationCity,
		DestinationCountry: in.DestinationCountry,
		HotelName:          in.HotelName,
		FlightNumber:       in.FlightNumber,
		PackageType:        packageType,
		TotalPrice:         price,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		Status:             status,
	}
}

func (s *TripService) create(ctx context.Context, op, ownerID string, in domain.TripInput) (*domain.Trip, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "is required")
	}

	in = normalizeTripInput(in)
	if err := validateTripInput(in); err != nil {
		metrics.TripValidationFailures.WithLabelValues(op).Inc()
		return nil, err
	}

	price := in.TotalPrice
	trip := &domain.Trip{
		ID:                 s.newID(),
		UserID:             ownerID,
		TravelerName:       in.TravelerName,
		DestinationCity:    in.DestinationCity,
		DestinationCountry: in.DestinationCountry,
		HotelName:          in.HotelName,
		FlightNumber:       in.FlightNumber,
		PackageType:        in.PackageType,
		TotalPrice:         &price,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		Status:             in.Status,
		CreatedAt:          s.now().UTC(),
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	s.afterMutation(ctx, op, domain.TripCreated, ownerID, trip.ID)
	return trip, nil
}

// Update replaces every editable field of the trip. A trip that does not
// exist or belongs to another owner is left alone and no error is
// returned. An empty trip id is a ValidationError.
func (s *TripService) Update(ctx context.Context, ownerID, tripID string, in domain.TripInput) error {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanTripsUpdate, attribute.String("trip.id", tripID))
	defer span.End()

	if ownerID == "" {
		return domain.NewValidationError("owner_id", "is required")
	}

	in = normalizeTripInput(in)
	if err := validateTripInput(in); err != nil {
		metrics.TripValidationFailures.WithLabelValues("update").Inc()
		return err
	}
	if tripID == "" {
		return domain.NewValidationError("id", "is required")
	}

	n, err := s.trips.UpdateMany(ctx, domain.TripFilter{OwnerID: ownerID, ID: tripID}, in)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	span.SetAttributes(attribute.Int64("rows", n))
	if n > 0 {
		s.afterMutation(ctx, "update", domain.TripUpdated, ownerID, tripID)
	}
	return nil
}

// Delete removes the trip if ownerID owns it. Deleting a missing or
// foreign trip is a no-op; an empty trip id is a ValidationError.
func (s *TripService) Delete(ctx context.Context, ownerID, tripID string) error {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanTripsDelete, attribute.String("trip.id", tripID))
	defer span.End()

	if ownerID == "" {
		return domain.NewValidationError("owner_id", "is required")
	}
	if tripID == "" {
		return domain.NewValidationError("id", "is required")
	}

	n, err := s.trips.DeleteMany(ctx, domain.TripFilter{OwnerID: ownerID, ID: tripID})
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	span.SetAttributes(attribute.Int64("rows", n))
	if n > 0 {
		s.afterMutation(ctx, "delete", domain.TripDeleted, ownerID, tripID)
	}
	return nil
}

// afterMutation drops the owner's cached dashboard and announces the
// change. Failures are logged; the mutation itself already succeeded.
func (s *TripService) afterMutation(ctx context.Context, op string, typ domain.TripEventType, ownerID, tripID string) {
	metrics.TripMutations.WithLabelValues(op).Inc()
	log := logging.FromContext(ctx)

	if s.cache != nil {
		if err := s.cache.Delete(ctx, DashboardCacheKey(ownerID)); err != nil {
			log.Warn("dashboard cache invalidate", "owner", ownerID, "error", err)
		}
	}

	if s.publisher != nil {
		event := domain.TripEvent{
			Type:       typ,
			OwnerID:    ownerID,
			TripID:     tripID,
			OccurredAt: s.now().UTC(),
		}
		if err := s.publisher.PublishTripEvent(ctx, event); err != nil {
			log.Warn("publish trip event", "type", typ, "trip", tripID, "error", err)
		}
	}
}
