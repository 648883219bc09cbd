package ports

import (
	"context"

	"github.com/planora/backoffice/internal/core/domain"
)

// TripRepository persists trips. Every filter carries an owner id and
// implementations must never return rows belonging to another owner.
type TripRepository interface {
	// Count returns the number of trips matching filter.
	Count(ctx context.Context, filter domain.TripFilter) (int, error)
	// FindMany returns matching trips in the given order, skipping skip
	// rows and returning at most take rows. take <= 0 returns all rows.
	FindMany(ctx context.Context, filter domain.TripFilter, order domain.TripOrder, skip, take int) ([]domain.Trip, error)
	// Create inserts a trip. ID and CreatedAt must already be set.
	Create(ctx context.Context, trip *domain.Trip) error
	// UpdateMany replaces every editable field on matching trips.
	UpdateMany(ctx context.Context, filter domain.TripFilter, data domain.TripInput) (int64, error)
	// DeleteMany removes matching trips.
	DeleteMany(ctx context.Context, filter domain.TripFilter) (int64, error)
}

// DestinationRepository persists the destination catalog.
type DestinationRepository interface {
	// Upsert inserts or updates by slug and sets d.ID.
	Upsert(ctx context.Context, d *domain.Destination) error
	// UpsertEvent inserts or updates by (destination, title, start time)
	// and sets e.ID.
	UpsertEvent(ctx context.Context, e *domain.DestinationEvent) error
	// List returns destinations ordered by name, with event counts.
	List(ctx context.Context) ([]domain.Destination, error)
	// GetBySlug returns domain.ErrNotFound when the slug is unknown.
	GetBySlug(ctx context.Context, slug string) (*domain.Destination, error)
	// ListEvents returns events ordered by start time ascending.
	ListEvents(ctx context.Context, destinationID string, limit int) ([]domain.DestinationEvent, error)
}
