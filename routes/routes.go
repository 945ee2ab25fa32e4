package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mralligator/appointment-scheduler/controllers"
)

// Dependencies bundles everything the HTTP surface is built from.
type Dependencies struct {
	Appointments *controllers.AppointmentController
	Settings     *controllers.SettingsController
	Auth         *controllers.AuthController
	Protected    []fiber.Handler
	Gatherer     prometheus.Gatherer
}

// Setup registers every route on app.
func Setup(app *fiber.App, deps Dependencies) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	SetupAuthRoutes(app, deps.Protected, deps.Auth)
	SetupAppointmentRoutes(app, deps.Appointments, deps.Settings)
	SetupAdminRoutes(app, deps.Protected, deps.Appointments, deps.Settings)
}
