package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/planora/backoffice/internal/core/domain"
)

const tripColumns = `id, user_id, COALESCE(traveler_name, ''), destination_city, destination_country,
	COALESCE(hotel_name, ''), COALESCE(flight_number, ''), package_type, total_price::float8,
	start_date, end_date, status, created_at`

// TripRepo implements ports.TripRepository.
type TripRepo struct {
	db *DB
}

func NewTripRepo(db *DB) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) Count(ctx context.Context, filter domain.TripFilter) (int, error) {
	where, args, err := buildTripWhere(filter)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *TripRepo) FindMany(ctx context.Context, filter domain.TripFilter, order domain.TripOrder, skip, take int) ([]domain.Trip, error) {
	where, args, err := buildTripWhere(filter)
	if err != nil {
		return nil, err
	}

	q := `SELECT ` + tripColumns + ` FROM trips WHERE ` + where + ` ORDER BY ` + orderClause(order)
	if take > 0 {
		args = append(args, take)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if skip > 0 {
		args = append(args, skip)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *TripRepo) Create(ctx context.Context, t *domain.Trip) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO trips (id, user_id, traveler_name, destination_city, destination_country,
		                   hotel_name, flight_number, package_type, total_price,
		                   start_date, end_date, status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13)
	`, t.ID, t.UserID, t.TravelerName, t.DestinationCity, t.DestinationCountry,
		t.HotelName, t.FlightNumber, t.PackageType, t.TotalPrice,
		t.StartDate, t.EndDate, string(t.Status), t.CreatedAt)
	return err
}

func (r *TripRepo) UpdateMany(ctx context.Context, filter domain.TripFilter, in domain.TripInput) (int64, error) {
	set := []any{
		in.TravelerName, in.DestinationCity, in.DestinationCountry, in.HotelName, in.FlightNumber,
		in.PackageType, in.TotalPrice, in.StartDate, in.EndDate, string(in.Status),
	}
	where, args, err := buildTripWhereFrom(filter, len(set)+1)
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trips SET
			traveler_name = NULLIF($1, ''), destination_city = $2, destination_country = $3,
			hotel_name = NULLIF($4, ''), flight_number = NULLIF($5, ''), package_type = $6,
			total_price = $7, start_date = $8, end_date = $9, status = $10
		WHERE `+where, append(set, args...)...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *TripRepo) DeleteMany(ctx context.Context, filter domain.TripFilter) (int64, error) {
	where, args, err := buildTripWhere(filter)
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM trips WHERE `+where, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var t domain.Trip
	var status string
	err := row.Scan(&t.ID, &t.UserID, &t.TravelerName, &t.DestinationCity, &t.DestinationCountry,
		&t.HotelName, &t.FlightNumber, &t.PackageType, &t.TotalPrice,
		&t.StartDate, &t.EndDate, &status, &t.CreatedAt)
	t.Status = domain.TripStatus(status)
	return t, err
}

func orderClause(order domain.TripOrder) string {
	if order == domain.OrderOldestFirst {
		return "created_at ASC, id ASC"
	}
	return "created_at DESC, id DESC"
}

func buildTripWhere(f domain.TripFilter) (string, []any, error) {
	return buildTripWhereFrom(f, 1)
}

// buildTripWhereFrom renders filter as a WHERE body whose placeholders
// start at $first. An empty owner is rejected so no query can span owners.
func buildTripWhereFrom(f domain.TripFilter, first int) (string, []any, error) {
	if f.OwnerID == "" {
		return "", nil, fmt.Errorf("trip filter: owner id is required")
	}

	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", first+len(args)-1)
	}

	conds = append(conds, "user_id = "+next(f.OwnerID))
	if f.ID != "" {
		conds = append(conds, "id = "+next(f.ID))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+next(string(f.Status)))
	}
	if f.Search != "" {
		p := next("%" + escapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf(
			"(traveler_name ILIKE %[1]s OR destination_country ILIKE %[1]s OR destination_city ILIKE %[1]s OR hotel_name ILIKE %[1]s)", p))
	}

	return strings.Join(conds, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
