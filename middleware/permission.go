package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mralligator/appointment-scheduler/utils"
)

// RequireAdmin rejects requests whose session lacks the admin flag. It must
// run after Protected.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFrom(c)
		if !ok {
			return unauthorized(c, "No authentication token")
		}
		if err := session.RequireAdmin(); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "You don't have permission to perform this action",
				Error:   err.Error(),
			})
		}
		return c.Next()
	}
}
