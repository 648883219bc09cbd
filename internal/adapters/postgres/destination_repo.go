package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/planora/backoffice/internal/core/domain"
)

// DestinationRepo implements ports.DestinationRepository.
type DestinationRepo struct {
	db *DB
}

func NewDestinationRepo(db *DB) *DestinationRepo {
	return &DestinationRepo{db: db}
}

func (r *DestinationRepo) Upsert(ctx context.Context, d *domain.Destination) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO destinations (slug, name, city, country, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, city = EXCLUDED.city, country = EXCLUDED.country, image_url = EXCLUDED.image_url
		RETURNING id::text, created_at
	`, d.Slug, d.Name, d.City, d.Country, d.ImageURL).Scan(&d.ID, &d.CreatedAt)
}

func (r *DestinationRepo) UpsertEvent(ctx context.Context, e *domain.DestinationEvent) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO destination_events (destination_id, title, start_time, end_time, price, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (destination_id, title, start_time) DO UPDATE
		SET end_time = EXCLUDED.end_time, price = EXCLUDED.price, available_seats = EXCLUDED.available_seats
		RETURNING id::text
	`, e.DestinationID, e.Title, e.StartTime, e.EndTime, e.Price, e.AvailableSeats).Scan(&e.ID)
}

func (r *DestinationRepo) List(ctx context.Context) ([]domain.Destination, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT d.id::text, d.slug, d.name, d.city, d.country, COALESCE(d.image_url, ''), d.created_at,
		       COUNT(e.id)
		FROM destinations d
		LEFT JOIN destination_events e ON e.destination_id = d.id
		GROUP BY d.id
		ORDER BY d.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dests []domain.Destination
	for rows.Next() {
		var d domain.Destination
		if err := rows.Scan(&d.ID, &d.Slug, &d.Name, &d.City, &d.Country, &d.ImageURL, &d.CreatedAt, &d.EventCount); err != nil {
			return nil, err
		}
		dests = append(dests, d)
	}
	return dests, rows.Err()
}

func (r *DestinationRepo) GetBySlug(ctx context.Context, slug string) (*domain.Destination, error) {
	d := &domain.Destination{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT d.id::text, d.slug, d.name, d.city, d.country, COALESCE(d.image_url, ''), d.created_at,
		       (SELECT COUNT(*) FROM destination_events e WHERE e.destination_id = d.id)
		FROM destinations d WHERE d.slug = $1
	`, slug).Scan(&d.ID, &d.Slug, &d.Name, &d.City, &d.Country, &d.ImageURL, &d.CreatedAt, &d.EventCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("destination %s: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DestinationRepo) ListEvents(ctx context.Context, destinationID string, limit int) ([]domain.DestinationEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, destination_id::text, title, start_time, end_time, price::float8, available_seats
		FROM destination_events
		WHERE destination_id = $1
		ORDER BY start_time, id
		LIMIT $2
	`, destinationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.DestinationEvent
	for rows.Next() {
		var e domain.DestinationEvent
		if err := rows.Scan(&e.ID, &e.DestinationID, &e.Title, &e.StartTime, &e.EndTime, &e.Price, &e.AvailableSeats); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
