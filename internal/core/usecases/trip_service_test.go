package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/ports"
	"github.com/planora/backoffice/internal/core/usecases"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func seedTrips(owner string, n int) []domain.Trip {
	trips := make([]domain.Trip, 0, n)
	for i := 0; i < n; i++ {
		trips = append(trips, domain.Trip{
			ID:                 fmt.Sprintf("%s-%02d", owner, i),
			UserID:             owner,
			TravelerName:       fmt.Sprintf("Traveler %d", i),
			DestinationCity:    "Lisbon",
			DestinationCountry: "Portugal",
			PackageType:        "STANDARD",
			Status:             domain.TripStatusUpcoming,
			CreatedAt:          baseTime.Add(time.Duration(i) * time.Hour),
		})
	}
	return trips
}

func validInput() domain.TripInput {
	return domain.TripInput{
		TravelerName:       "Ada",
		DestinationCity:    "Rome",
		DestinationCountry: "Italy",
		PackageType:        "luxury ",
		TotalPrice:         1200,
		StartDate:          baseTime.AddDate(0, 1, 0),
		EndDate:            baseTime.AddDate(0, 1, 7),
		Status:             domain.TripStatusBooked,
	}
}

func newTripService(repo *memTripRepo, cache *mockCache, pub *mockPublisher) *usecases.TripService {
	n := 0
	// Pass untyped nils for absent mocks so the service's nil checks see
	// a nil interface rather than a nil pointer wrapped in one.
	var c ports.CacheService
	if cache != nil {
		c = cache
	}
	var p ports.EventPublisher
	if pub != nil {
		p = pub
	}
	return usecases.NewTripService(repo, c, p,
		usecases.WithTripClock(func() time.Time { return baseTime }),
		usecases.WithTripIDs(func() string { n++; return fmt.Sprintf("new-%d", n) }),
	)
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
	}
	for _, c := range cases {
		if got := usecases.TotalPages(c.total, c.size); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.size, got, c.want)
		}
	}
}

func TestTripService_List_Pagination(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 12)}
	svc := newTripService(repo, nil, nil)

	page, err := svc.List(context.Background(), usecases.TripQuery{OwnerID: "alice", Page: 3, PageSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 12 || page.TotalPages != 3 {
		t.Fatalf("expected 12 trips over 3 pages, got %d over %d", page.TotalCount, page.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items on last page, got %d", len(page.Items))
	}
	// Newest first: the last page holds the two oldest.
	if page.Items[0].ID != "alice-01" || page.Items[1].ID != "alice-00" {
		t.Errorf("unexpected order: %s, %s", page.Items[0].ID, page.Items[1].ID)
	}
}

func TestTripService_List_PastLastPage(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 7)}
	svc := newTripService(repo, nil, nil)

	page, err := svc.List(context.Background(), usecases.TripQuery{OwnerID: "alice", Page: 9, PageSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("expected no items, got %d", len(page.Items))
	}
	if page.TotalCount != 7 || page.TotalPages != 2 {
		t.Errorf("totals changed: %d/%d", page.TotalCount, page.TotalPages)
	}
}

func TestTripService_List_EmptyHasOnePage(t *testing.T) {
	svc := newTripService(&memTripRepo{}, nil, nil)

	page, err := svc.List(context.Background(), usecases.TripQuery{OwnerID: "alice", Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalPages != 1 || page.Items == nil || len(page.Items) != 0 {
		t.Errorf("unexpected empty page: %+v", page)
	}
}

func TestTripService_List_PagesAreComplete(t *testing.T) {
	trips := seedTrips("alice", 13)
	// Equal timestamps exercise the id tie-break.
	trips[4].CreatedAt = trips[5].CreatedAt
	repo := &memTripRepo{trips: trips}
	svc := newTripService(repo, nil, nil)

	seen := map[string]bool{}
	var ordered []string
	for p := 1; ; p++ {
		page, err := svc.List(context.Background(), usecases.TripQuery{OwnerID: "alice", Page: p, PageSize: 4})
		if err != nil {
			t.Fatalf("page %d: %v", p, err)
		}
		for _, trip := range page.Items {
			if seen[trip.ID] {
				t.Fatalf("duplicate %s on page %d", trip.ID, p)
			}
			seen[trip.ID] = true
			ordered = append(ordered, trip.ID)
		}
		if p >= page.TotalPages {
			break
		}
	}
	if len(ordered) != 13 {
		t.Fatalf("expected 13 trips across pages, got %d", len(ordered))
	}

	all, _ := repo.FindMany(context.Background(), domain.TripFilter{OwnerID: "alice"}, domain.OrderNewestFirst, 0, 0)
	for i := range all {
		if all[i].ID != ordered[i] {
			t.Fatalf("position %d: want %s, got %s", i, all[i].ID, ordered[i])
		}
	}
}

func TestTripService_List_OwnerIsolation(t *testing.T) {
	repo := &memTripRepo{trips: append(seedTrips("alice", 3), seedTrips("bob", 4)...)}
	svc := newTripService(repo, nil, nil)

	page, err := svc.List(context.Background(), usecases.TripQuery{OwnerID: "bob", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 4 {
		t.Fatalf("expected 4 trips, got %d", page.TotalCount)
	}
	for _, trip := range page.Items {
		if trip.UserID != "bob" {
			t.Errorf("leaked trip %s owned by %s", trip.ID, trip.UserID)
		}
	}
}

func TestTripService_List_SearchIsCaseInsensitive(t *testing.T) {
	repo := &memTripRepo{trips: []domain.Trip{
		{ID: "1", UserID: "alice", TravelerName: "ROMEO", DestinationCity: "Florence", CreatedAt: baseTime},
		{ID: "2", UserID: "alice", TravelerName: "mia", DestinationCity: "Rome", CreatedAt: baseTime},
		{ID: "3", UserID: "alice", TravelerName: "Liam", DestinationCity: "Florence", CreatedAt: baseTime},
		{ID: "4", UserID: "bob", DestinationCity: "Rome", CreatedAt: baseTime},
	}}
	svc := newTripService(repo, nil, nil)

	page, err := svc.List(context.Background(), usecases.TripQuery{OwnerID: "alice", Search: "  rome ", Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("expected 2 matches, got %d", page.TotalCount)
	}

	page, err = svc.List(context.Background(), usecases.TripQuery{OwnerID: "alice", Search: "FLOR", Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("expected 2 Florence trips, got %d", page.TotalCount)
	}
}

func TestTripService_List_RejectsBadInput(t *testing.T) {
	svc := newTripService(&memTripRepo{}, nil, nil)

	cases := []usecases.TripQuery{
		{OwnerID: "", Page: 1, PageSize: 5},
		{OwnerID: "alice", Page: 1, PageSize: 0},
		{OwnerID: "alice", Page: 1, PageSize: -3},
		{OwnerID: "alice", Page: 0, PageSize: 5},
	}
	for _, q := range cases {
		if _, err := svc.List(context.Background(), q); !domain.IsValidation(err) {
			t.Errorf("%+v: expected validation error, got %v", q, err)
		}
	}
}

func TestTripService_Get_ForeignTripIsNotFound(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 1)}
	svc := newTripService(repo, nil, nil)

	if _, err := svc.Get(context.Background(), "bob", "alice-00"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	trip, err := svc.Get(context.Background(), "alice", "alice-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.ID != "alice-00" {
		t.Errorf("expected alice-00, got %s", trip.ID)
	}
}

func TestTripService_Create(t *testing.T) {
	repo := &memTripRepo{}
	cache := newMockCache()
	pub := &mockPublisher{}
	svc := newTripService(repo, cache, pub)

	trip, err := svc.Create(context.Background(), "alice", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.ID != "new-1" || trip.UserID != "alice" || !trip.CreatedAt.Equal(baseTime) {
		t.Errorf("unexpected trip: %+v", trip)
	}
	if trip.PackageType != "LUXURY" {
		t.Errorf("expected normalized package type, got %q", trip.PackageType)
	}
	if len(repo.snapshot()) != 1 {
		t.Fatalf("expected trip to be stored")
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.TripCreated {
		t.Errorf("expected a created event, got %+v", pub.events)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != usecases.DashboardCacheKey("alice") {
		t.Errorf("expected dashboard invalidation, got %v", cache.deleted)
	}
}

func TestTripService_Create_ReportsEveryInvalidField(t *testing.T) {
	repo := &memTripRepo{}
	pub := &mockPublisher{}
	svc := newTripService(repo, nil, pub)

	in := validInput()
	in.TravelerName = " "
	in.DestinationCity = ""
	in.TotalPrice = -1
	in.EndDate = in.StartDate.Add(-time.Hour)
	in.Status = "LOST"

	_, err := svc.Create(context.Background(), "alice", in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got := map[string]bool{}
	for _, f := range ve.Fields {
		got[f.Field] = true
	}
	for _, want := range []string{"traveler_name", "destination_city", "total_price", "end_date", "status"} {
		if !got[want] {
			t.Errorf("missing field error for %s in %v", want, ve.Fields)
		}
	}
	if len(repo.snapshot()) != 0 || len(pub.events) != 0 {
		t.Error("invalid input must not be stored or announced")
	}
}

func TestTripService_Create_AcceptsLowercaseStatus(t *testing.T) {
	svc := newTripService(&memTripRepo{}, nil, nil)
	in := validInput()
	in.Status = "completed"

	trip, err := svc.Create(context.Background(), "alice", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", trip.Status)
	}
}

func TestTripService_QuickBook_Defaults(t *testing.T) {
	repo := &memTripRepo{}
	svc := newTripService(repo, nil, nil)

	trip, err := svc.QuickBook(context.Background(), domain.User{ID: "alice"}, usecases.QuickBookInput{
		DestinationCity:    "Porto",
		DestinationCountry: "Portugal",
		StartDate:          baseTime.AddDate(0, 0, 7),
		EndDate:            baseTime.AddDate(0, 0, 14),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.TravelerName != "Traveler" {
		t.Errorf("expected default traveler, got %q", trip.TravelerName)
	}
	if trip.PackageType != domain.DefaultPackageType {
		t.Errorf("expected STANDARD, got %q", trip.PackageType)
	}
	if trip.Status != domain.TripStatusUpcoming {
		t.Errorf("expected UPCOMING, got %s", trip.Status)
	}
	if trip.Price() != 0 {
		t.Errorf("expected price 0, got %v", trip.Price())
	}
}

func TestTripService_QuickBook_PrefersUserName(t *testing.T) {
	svc := newTripService(&memTripRepo{}, nil, nil)

	trip, err := svc.QuickBook(context.Background(), domain.User{ID: "alice", Name: "Alice Admin"}, usecases.QuickBookInput{
		TravelerName:       "Form Name",
		DestinationCity:    "Porto",
		DestinationCountry: "Portugal",
		StartDate:          baseTime,
		EndDate:            baseTime,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.TravelerName != "Alice Admin" {
		t.Errorf("expected user name, got %q", trip.TravelerName)
	}
}

func TestTripService_QuickBook_RequiresDestination(t *testing.T) {
	repo := &memTripRepo{}
	svc := newTripService(repo, nil, nil)

	_, err := svc.QuickBook(context.Background(), domain.User{ID: "alice"}, usecases.QuickBookInput{
		StartDate: baseTime,
		EndDate:   baseTime,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.snapshot()) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestTripService_Update(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 1)}
	pub := &mockPublisher{}
	svc := newTripService(repo, nil, pub)

	if err := svc.Update(context.Background(), "alice", "alice-00", validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := repo.snapshot()[0]
	if got.DestinationCity != "Rome" || got.Status != domain.TripStatusBooked || got.Price() != 1200 {
		t.Errorf("update not applied: %+v", got)
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.TripUpdated {
		t.Errorf("expected an updated event, got %+v", pub.events)
	}
}

func TestTripService_Update_InvalidLeavesTripAlone(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 1)}
	svc := newTripService(repo, nil, nil)

	in := validInput()
	in.DestinationCountry = ""
	if err := svc.Update(context.Background(), "alice", "alice-00", in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.snapshot()[0].DestinationCity != "Lisbon" {
		t.Error("trip was modified")
	}
}

func TestTripService_ForeignMutationsAreNoOps(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 2)}
	pub := &mockPublisher{}
	svc := newTripService(repo, nil, pub)
	before := repo.snapshot()

	errForeign := svc.Delete(context.Background(), "bob", "alice-00")
	errMissing := svc.Delete(context.Background(), "bob", "does-not-exist")
	if errForeign != nil || errMissing != nil {
		t.Fatalf("expected nil errors, got %v / %v", errForeign, errMissing)
	}
	if err := svc.Update(context.Background(), "bob", "alice-01", validInput()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	after := repo.snapshot()
	if len(after) != len(before) {
		t.Fatalf("store changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i].DestinationCity != before[i].DestinationCity {
			t.Errorf("trip %s changed", before[i].ID)
		}
	}
	if len(pub.events) != 0 {
		t.Errorf("no events expected, got %+v", pub.events)
	}
}

func TestTripService_Delete(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 2)}
	cache := newMockCache()
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newTripService(repo, cache, pub)

	// A failing publisher does not fail the mutation.
	if err := svc.Delete(context.Background(), "alice", "alice-00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.snapshot()) != 1 {
		t.Fatalf("expected 1 trip left")
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.TripDeleted || pub.events[0].TripID != "alice-00" {
		t.Errorf("unexpected events: %+v", pub.events)
	}
	if len(cache.deleted) != 1 {
		t.Errorf("expected dashboard invalidation, got %v", cache.deleted)
	}
}

func TestTripService_List_HugePageIsEmpty(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 7)}
	svc := newTripService(repo, nil, nil)

	// (page-1)*pageSize overflows int for this page number.
	page, err := svc.List(context.Background(), usecases.TripQuery{OwnerID: "alice", Page: (1 << 62) + 1, PageSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("expected no items far past the last page, got %d", len(page.Items))
	}
	if page.Items == nil {
		t.Error("items must be an empty list, not nil")
	}
	if page.TotalCount != 7 || page.TotalPages != 2 {
		t.Errorf("totals changed: %d/%d", page.TotalCount, page.TotalPages)
	}
}

func TestTripService_MutationsRequireTripID(t *testing.T) {
	repo := &memTripRepo{trips: seedTrips("alice", 1)}
	pub := &mockPublisher{}
	svc := newTripService(repo, nil, pub)

	for name, err := range map[string]error{
		"update": svc.Update(context.Background(), "alice", "", validInput()),
		"delete": svc.Delete(context.Background(), "alice", ""),
	} {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
			continue
		}
		if len(ve.Fields) != 1 || ve.Fields[0].Field != "id" {
			t.Errorf("%s: unexpected fields %+v", name, ve.Fields)
		}
	}
	if len(repo.snapshot()) != 1 || len(pub.events) != 0 {
		t.Errorf("store or events changed: %d trips, %d events", len(repo.snapshot()), len(pub.events))
	}
}

func TestValidateTripInput_MergesPriorErrors(t *testing.T) {
	in := validInput()
	in.TravelerName = ""
	in.DestinationCity = " "
	in.StartDate = time.Time{}
	prior := domain.NewValidationError("start_date", "must be a date")

	err := usecases.ValidateTripInput(in, prior)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	got := map[string]string{}
	for _, f := range ve.Fields {
		if _, dup := got[f.Field]; dup {
			t.Errorf("field %s reported twice", f.Field)
		}
		got[f.Field] = f.Message
	}
	if got["start_date"] != "must be a date" {
		t.Errorf("prior message lost: %+v", ve.Fields)
	}
	for _, field := range []string{"traveler_name", "destination_city"} {
		if got[field] != "is required" {
			t.Errorf("expected %s to be required, got %+v", field, ve.Fields)
		}
	}

	if err := usecases.ValidateTripInput(validInput(), nil); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
}
