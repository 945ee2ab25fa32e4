package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mralligator/appointment-scheduler/controllers"
)

// SetupAppointmentRoutes configures the public booking routes
func SetupAppointmentRoutes(app *fiber.App, appointments *controllers.AppointmentController, settings *controllers.SettingsController) {
	appointment := app.Group("/api/appointments")
	appointment.Get("/settings", settings.GetSettings)
	appointment.Get("/availability", appointments.GetAvailability)
	appointment.Post("/", appointments.CreateAppointment)
}

// SetupAdminRoutes configures the token-protected back office routes
func SetupAdminRoutes(app *fiber.App, protected []fiber.Handler, appointments *controllers.AppointmentController, settings *controllers.SettingsController) {
	admin := app.Group("/api/admin")

	admin.Get("/appointments", guard(protected, appointments.GetAllAppointments)...)
	admin.Get("/appointments/range", guard(protected, appointments.GetAppointmentsInRange)...)
	admin.Get("/appointments/:id", guard(protected, appointments.GetAppointment)...)
	admin.Patch("/appointments/:id/status", guard(protected, appointments.UpdateAppointmentStatus)...)
	admin.Delete("/appointments/:id", guard(protected, appointments.DeleteAppointment)...)

	admin.Get("/settings", guard(protected, settings.GetSettings)...)
	admin.Put("/settings", guard(protected, settings.UpdateSettings)...)
}

// guard prefixes handler with the auth chain without sharing its backing array.
func guard(protected []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(protected)+1)
	chain = append(chain, protected...)
	return append(chain, handler)
}
