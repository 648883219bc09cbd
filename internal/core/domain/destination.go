package domain

import "time"

// Destination is a city in the browsable catalog.
type Destination struct {
	ID         string    `json:"id,omitempty"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	ImageURL   string    `json:"image_url"`
	EventCount int       `json:"things_to_do"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// DestinationEvent is a scheduled experience at a destination.
type DestinationEvent struct {
	ID             string    `json:"id"`
	DestinationID  string    `json:"destination_id"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Price          *float64  `json:"price,omitempty"`
	AvailableSeats *int      `json:"available_seats,omitempty"`
}

// TravelPackage is a bookable offer shown on a destination page.
type TravelPackage struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	HotelName      string    `json:"hotel_name"`
	FlightNumber   string    `json:"flight_number"`
	PackageType    string    `json:"package_type"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Price          float64   `json:"price"`
	AvailableSpots int       `json:"available_spots"`
}

// DestinationDetail is a destination together with its packages.
type DestinationDetail struct {
	Destination Destination     `json:"destination"`
	Packages    []TravelPackage `json:"packages"`
}
