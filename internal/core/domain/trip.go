package domain

import (
	"time"
)

// TripStatus is the booking state of a trip.
type TripStatus string

const (
	TripStatusUpcoming  TripStatus = "UPCOMING"
	TripStatusBooked    TripStatus = "BOOKED"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// TripStatuses lists every valid status.
var TripStatuses = []TripStatus{
	TripStatusUpcoming,
	TripStatusBooked,
	TripStatusCompleted,
	TripStatusCancelled,
}

// Valid reports whether s is one of the four known statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusUpcoming, TripStatusBooked, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// DefaultPackageType is used when a quick booking omits the package type.
const DefaultPackageType = "STANDARD"

// Trip is a single booking owned by one admin user.
type Trip struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	TravelerName       string     `json:"traveler_name,omitempty"`
	DestinationCity    string     `json:"destination_city"`
	DestinationCountry string     `json:"destination_country"`
	HotelName          string     `json:"hotel_name,omitempty"`
	FlightNumber       string     `json:"flight_number,omitempty"`
	PackageType        string     `json:"package_type"`
	TotalPrice         *float64   `json:"total_price"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	Status             TripStatus `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Price returns the total price, treating a missing price as zero.
func (t Trip) Price() float64 {
	if t.TotalPrice == nil {
		return 0
	}
	return *t.TotalPrice
}

// TripInput holds every editable trip field. Create and update both
// replace the full set.
type TripInput struct {
	TravelerName       string     `json:"traveler_name" validate:"required"`
	DestinationCity    string     `json:"destination_city" validate:"required"`
	DestinationCountry string     `json:"destination_country" validate:"required"`
	HotelName          string     `json:"hotel_name"`
	FlightNumber       string     `json:"flight_number"`
	PackageType        string     `json:"package_type" validate:"required"`
	TotalPrice         float64    `json:"total_price" validate:"gte=0"`
	StartDate          time.Time  `json:"start_date" validate:"required"`
	EndDate            time.Time  `json:"end_date" validate:"required,gtefield=StartDate"`
	Status             TripStatus `json:"status" validate:"required,tripstatus"`
}

// TripFilter selects trips. Zero-valued fields are not applied, except
// OwnerID which every query requires.
type TripFilter struct {
	OwnerID string
	ID      string
	Status  TripStatus
	// Search is matched case-insensitively as a substring of the traveler
	// name, destination country, destination city or hotel name.
	Search string
}

// TripOrder is the sort order for trip listings.
type TripOrder int

const (
	// OrderNewestFirst sorts by created_at descending, then id descending.
	OrderNewestFirst TripOrder = iota
	// OrderOldestFirst sorts by created_at ascending, then id ascending.
	OrderOldestFirst
)

// TripPage is one page of a filtered trip listing.
type TripPage struct {
	Items      []Trip `json:"items"`
	TotalCount int    `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// User is the authenticated admin as reported by the identity provider.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// TripEventType names a trip lifecycle change.
type TripEventType string

const (
	TripCreated TripEventType = "created"
	TripUpdated TripEventType = "updated"
	TripDeleted TripEventType = "deleted"
)

// TripEvent is published after a trip mutation touched at least one row.
type TripEvent struct {
	Type       TripEventType `json:"type"`
	OwnerID    string        `json:"owner_id"`
	TripID     string        `json:"trip_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}
