package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/usecases"
)

// tripRequest is the JSON body for trip writes. Dates accept RFC 3339
// or a plain YYYY-MM-DD.
type tripRequest struct {
	TravelerName       string   `json:"traveler_name"`
	DestinationCity    string   `json:"destination_city"`
	DestinationCountry string   `json:"destination_country"`
	HotelName          string   `json:"hotel_name"`
	FlightNumber       string   `json:"flight_number"`
	PackageType        string   `json:"package_type"`
	TotalPrice         *float64 `json:"total_price"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	Status             string   `json:"status"`
}

// dates parses both dates. Unparseable ones are left zero and reported
// in the returned error, which is nil when both parsed.
func (r tripRequest) dates() (start, end time.Time, dateErr *domain.ValidationError) {
	ve := &domain.ValidationError{}
	start, ok := parseDate(r.StartDate)
	if !ok {
		ve.Add("start_date", "must be a date (YYYY-MM-DD or RFC 3339)")
	}
	end, ok = parseDate(r.EndDate)
	if !ok {
		ve.Add("end_date", "must be a date (YYYY-MM-DD or RFC 3339)")
	}
	if ve.HasErrors() {
		return start, end, ve
	}
	return start, end, nil
}

func (r tripRequest) toInput() (domain.TripInput, *domain.ValidationError) {
	start, end, dateErr := r.dates()
	var price float64
	if r.TotalPrice != nil {
		price = *r.TotalPrice
	}
	return domain.TripInput{
		TravelerName:       r.TravelerName,
		DestinationCity:    r.DestinationCity,
		DestinationCountry: r.DestinationCountry,
		HotelName:          r.HotelName,
		FlightNumber:       r.FlightNumber,
		PackageType:        r.PackageType,
		TotalPrice:         price,
		StartDate:          start,
		EndDate:            end,
		Status:             domain.TripStatus(r.Status),
	}, dateErr
}

func (r tripRequest) toQuickBook() (usecases.QuickBookInput, *domain.ValidationError) {
	start, end, dateErr := r.dates()
	return usecases.QuickBookInput{
		TravelerName:       r.TravelerName,
		DestinationCity:    r.DestinationCity,
		DestinationCountry: r.DestinationCountry,
		HotelName:          r.HotelName,
		FlightNumber:       r.FlightNumber,
		PackageType:        r.PackageType,
		TotalPrice:         r.TotalPrice,
		StartDate:          start,
		EndDate:            end,
		Status:             domain.TripStatus(r.Status),
	}, dateErr
}

// parseDate accepts an empty string as the zero time so the required
// check reports it.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ListTripsHandler returns one page of the caller's trips, newest first.
// Query: q (search), page, page_size.
func ListTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return errUnauthorized(c, "authentication required")
		}

		page, size := pageParams(c, deps.PageSize, deps.MaxPageSize)
		if len(c.Query("q")) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		result, err := deps.Trips.List(c.UserContext(), usecases.TripQuery{
			OwnerID:  user.ID,
			Search:   c.Query("q"),
			Page:     page,
			PageSize: size,
		})
		if err != nil {
			return writeError(c, err)
		}

		SetPageLinkHeaders(c, result.Page, result.PageSize, result.TotalPages)
		return c.JSON(result)
	}
}

// GetTripHandler returns a single trip owned by the caller.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return errUnauthorized(c, "authentication required")
		}

		trip, err := deps.Trips.Get(c.UserContext(), user.ID, c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(trip)
	}
}

// CreateTripHandler creates a trip from the full booking form.
func CreateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return errUnauthorized(c, "authentication required")
		}

		var req tripRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		in, dateErr := req.toInput()
		if dateErr != nil {
			return writeError(c, usecases.ValidateTripInput(in, dateErr))
		}

		trip, err := deps.Trips.Create(c.UserContext(), user.ID, in)
		if err != nil {
			return writeError(c, err)
		}

		c.Location("/v1/trips/" + trip.ID)
		return c.Status(fiber.StatusCreated).JSON(trip)
	}
}

// QuickBookHandler creates a trip from a destination package. Only the
// destination fields are required.
func QuickBookHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return errUnauthorized(c, "authentication required")
		}

		var req tripRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		in, dateErr := req.toQuickBook()
		if dateErr != nil {
			return writeError(c, usecases.ValidateTripInput(usecases.QuickBookTripInput(user, in), dateErr))
		}

		trip, err := deps.Trips.QuickBook(c.UserContext(), user, in)
		if err != nil {
			return writeError(c, err)
		}

		c.Location("/v1/trips/" + trip.ID)
		return c.Status(fiber.StatusCreated).JSON(trip)
	}
}

// UpdateTripHandler replaces a trip's editable fields. Unknown or
// foreign ids get the same 204 as a successful update.
func UpdateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return errUnauthorized(c, "authentication required")
		}

		var req tripRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		in, dateErr := req.toInput()
		if dateErr != nil {
			return writeError(c, usecases.ValidateTripInput(in, dateErr))
		}

		if err := deps.Trips.Update(c.UserContext(), user.ID, c.Params("id"), in); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteTripHandler deletes a trip. Unknown or foreign ids get the same
// 204 as a successful delete.
func DeleteTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return errUnauthorized(c, "authentication required")
		}

		if err := deps.Trips.Delete(c.UserContext(), user.ID, c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
