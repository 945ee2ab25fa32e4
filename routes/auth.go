package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mralligator/appointment-scheduler/controllers"
)

// SetupAuthRoutes configures the admin setup and login routes
func SetupAuthRoutes(app *fiber.App, protected []fiber.Handler, auth *controllers.AuthController) {
	admin := app.Group("/api/admin")

	// Public routes
	admin.Get("/setup-status", auth.SetupStatus)
	admin.Post("/setup", auth.Setup)
	admin.Post("/login", auth.Login)

	// Protected routes
	admin.Get("/verify", guard(protected, auth.Verify)...)
}
