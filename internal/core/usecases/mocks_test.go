package usecases_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/planora/backoffice/internal/core/domain"
)

// --- In-memory TripRepository ---

type memTripRepo struct {
	mu    sync.Mutex
	trips []domain.Trip
}

func (r *memTripRepo) match(f domain.TripFilter, t domain.Trip) bool {
	if t.UserID != f.OwnerID {
		return false
	}
	if f.ID != "" && t.ID != f.ID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{t.TravelerName, t.DestinationCountry, t.DestinationCity, t.HotelName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (r *memTripRepo) Count(_ context.Context, f domain.TripFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.trips {
		if r.match(f, t) {
			n++
		}
	}
	return n, nil
}

func (r *memTripRepo) FindMany(_ context.Context, f domain.TripFilter, order domain.TripOrder, skip, take int) ([]domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Trip
	for _, t := range r.trips {
		if r.match(f, t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if order == domain.OrderOldestFirst {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if take > 0 && take < len(out) {
		out = out[:take]
	}
	return out, nil
}

func (r *memTripRepo) Create(_ context.Context, t *domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips = append(r.trips, *t)
	return nil
}

func (r *memTripRepo) UpdateMany(_ context.Context, f domain.TripFilter, in domain.TripInput) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i, t := range r.trips {
		if !r.match(f, t) {
			continue
		}
		price := in.TotalPrice
		t.TravelerName = in.TravelerName
		t.DestinationCity = in.DestinationCity
		t.DestinationCountry = in.DestinationCountry
		t.HotelName = in.HotelName
		t.FlightNumber = in.FlightNumber
		t.PackageType = in.PackageType
		t.TotalPrice = &price
		t.StartDate = in.StartDate
		t.EndDate = in.EndDate
		t.Status = in.Status
		r.trips[i] = t
		n++
	}
	return n, nil
}

func (r *memTripRepo) DeleteMany(_ context.Context, f domain.TripFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.trips[:0]
	var n int64
	for _, t := range r.trips {
		if r.match(f, t) {
			n++
			continue
		}
		kept = append(kept, t)
	}
	r.trips = kept
	return n, nil
}

func (r *memTripRepo) snapshot() []domain.Trip {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Trip, len(r.trips))
	copy(out, r.trips)
	return out
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
	err     error // returned by Set and Delete when non-nil
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.TripEvent
	err    error
}

func (p *mockPublisher) PublishTripEvent(_ context.Context, e domain.TripEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *mockPublisher) PublishDashboardRefreshed(context.Context, string) error { return nil }

// --- Mock DestinationRepository ---

type mockDestinationRepo struct {
	listFn       func(ctx context.Context) ([]domain.Destination, error)
	getBySlugFn  func(ctx context.Context, slug string) (*domain.Destination, error)
	listEventsFn func(ctx context.Context, destinationID string, limit int) ([]domain.DestinationEvent, error)
	upserted     []string
	events       []domain.DestinationEvent
}

func (m *mockDestinationRepo) Upsert(_ context.Context, d *domain.Destination) error {
	d.ID = "id-" + d.Slug
	m.upserted = append(m.upserted, d.Slug)
	return nil
}

func (m *mockDestinationRepo) UpsertEvent(_ context.Context, e *domain.DestinationEvent) error {
	m.events = append(m.events, *e)
	return nil
}

func (m *mockDestinationRepo) List(ctx context.Context) ([]domain.Destination, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockDestinationRepo) GetBySlug(ctx context.Context, slug string) (*domain.Destination, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, domain.ErrNotFound
}

func (m *mockDestinationRepo) ListEvents(ctx context.Context, destinationID string, limit int) ([]domain.DestinationEvent, error) {
	if m.listEventsFn != nil {
		return m.listEventsFn(ctx, destinationID, limit)
	}
	return nil, nil
}
