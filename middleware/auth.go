package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/mralligator/appointment-scheduler/auth"
	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/utils"
)

const sessionKey = "session"

// Protected verifies the bearer token and stores the admin Session in Locals.
func Protected(secret []byte, logger *logging.Logger) fiber.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   secret,
		ErrorHandler: jwtError(logger),
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Invalid token claims")
			}

			session, err := auth.SessionFromClaims(claims)
			if err != nil {
				logger.Warn("token claims rejected", "error", err)
				return unauthorized(c, "Invalid token claims")
			}

			c.Locals(sessionKey, session)
			return c.Next()
		},
	})
}

// SessionFrom returns the session Protected stored, if any.
func SessionFrom(c *fiber.Ctx) (auth.Session, bool) {
	s, ok := c.Locals(sessionKey).(auth.Session)
	return s, ok
}

// jwtError handles JWT errors
func jwtError(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logger.Debug("jwt rejected", "error", err, "path", c.Path())
		return unauthorized(c, "Invalid or expired token")
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: msg,
		Error:   "Unauthorized",
	})
}
