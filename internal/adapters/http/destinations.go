package http

import "github.com/gofiber/fiber/v2"

// ListDestinationsHandler returns the destination catalog.
func ListDestinationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := deps.Destinations.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	}
}

// GetDestinationHandler returns a destination with its packages.
func GetDestinationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := deps.Destinations.Detail(c.UserContext(), c.Params("slug"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(d)
	}
}
