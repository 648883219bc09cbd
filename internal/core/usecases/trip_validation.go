package usecases

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/planora/backoffice/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so clients can map errors to inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("tripstatus", func(fl validator.FieldLevel) bool {
		return domain.TripStatus(fl.Field().String()).Valid()
	})
	if err != nil {
		panic("register tripstatus validation: " + err.Error())
	}

	return v
}

// normalizeTripInput trims text fields and upper-cases the enumerated ones.
func normalizeTripInput(in domain.TripInput) domain.TripInput {
	in.TravelerName = strings.TrimSpace(in.TravelerName)
	in.DestinationCity = strings.TrimSpace(in.DestinationCity)
	in.DestinationCountry = strings.TrimSpace(in.DestinationCountry)
	in.HotelName = strings.TrimSpace(in.HotelName)
	in.FlightNumber = strings.TrimSpace(in.FlightNumber)
	in.PackageType = strings.ToUpper(strings.TrimSpace(in.PackageType))
	in.Status = domain.TripStatus(strings.ToUpper(strings.TrimSpace(string(in.Status))))
	return in
}

// validateTripInput returns a *domain.ValidationError listing every
// failing field, or nil.
func validateTripInput(in domain.TripInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), fieldMessage(fe))
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must not be negative"
	case "gtefield":
		return "must not be before start_date"
	case "tripstatus":
		return "must be one of UPCOMING, BOOKED, COMPLETED, CANCELLED"
	default:
		return "is invalid"
	}
}

// ValidateTripInput validates in after normalisation and merges the
// result with prior, which holds errors found before the input could be
// built (unparseable dates). Fields already reported in prior are not
// repeated. It returns nil only when both are clean.
func ValidateTripInput(in domain.TripInput, prior *domain.ValidationError) error {
	merged := &domain.ValidationError{}
	seen := map[string]bool{}
	if prior != nil {
		for _, f := range prior.Fields {
			merged.Add(f.Field, f.Message)
			seen[f.Field] = true
		}
	}

	err := validateTripInput(normalizeTripInput(in))
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		for _, f := range ve.Fields {
			if !seen[f.Field] {
				merged.Add(f.Field, f.Message)
			}
		}
	case err != nil:
		return err
	}

	if !merged.HasErrors() {
		return nil
	}
	return merged
}
