package http

import "github.com/gofiber/fiber/v2"

// DashboardHandler returns the caller's aggregated dashboard.
func DashboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return errUnauthorized(c, "authentication required")
		}

		d, err := deps.Dashboards.Get(c.UserContext(), user.ID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(d)
	}
}
