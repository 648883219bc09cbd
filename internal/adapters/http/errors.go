package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int                 `json:"status"`
	Code      string              `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string              `json:"message"` // Human-readable message
	RequestID string              `json:"request_id,omitempty"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, 401, "unauthorized", msg)
}

// errValidation returns a 400 error listing every invalid field.
func errValidation(c *fiber.Ctx, ve *domain.ValidationError) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(400).JSON(APIError{
		Status:    400,
		Code:      "validation_failed",
		Message:   "one or more fields are invalid",
		RequestID: reqID,
		Fields:    ve.Fields,
	})
}

// writeError maps a service error onto the matching response. Unknown
// errors are logged and reported without detail.
func writeError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return errValidation(c, ve)
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return errUnauthorized(c, "authentication required")
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, 504, "timeout", "request timed out")
	}

	logging.FromContext(c.UserContext()).Error("request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return errInternal(c, "internal server error")
}
