package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mralligator/appointment-scheduler/appointments"
	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/middleware"
	"github.com/mralligator/appointment-scheduler/models"
	"github.com/mralligator/appointment-scheduler/utils"
)

// AppointmentService is the lifecycle surface the handlers drive.
type AppointmentService interface {
	Availability(ctx context.Context, date time.Time) (appointments.Availability, error)
	Create(ctx context.Context, draft appointments.Draft) (*appointments.Result, error)
	Get(ctx context.Context, id string) (models.Appointment, error)
	SetStatus(ctx context.Context, appt models.Appointment, status models.AppointmentStatus) (*appointments.Result, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentLister backs the admin listings.
type AppointmentLister interface {
	List(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
}

type AppointmentController struct {
	service AppointmentService
	lister  AppointmentLister
	logger  *logging.Logger
}

func NewAppointmentController(service AppointmentService, lister AppointmentLister, logger *logging.Logger) *AppointmentController {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentController{service: service, lister: lister, logger: logger}
}

// ResultResponse is returned by every write. Warning is set when the record
// was saved but an email did not go out.
type ResultResponse struct {
	Appointment models.Appointment `json:"appointment"`
	Persisted   bool               `json:"persisted"`
	Notified    bool               `json:"notified"`
	Warning     string             `json:"warning,omitempty"`
}

func newResultResponse(res *appointments.Result) ResultResponse {
	out := ResultResponse{
		Appointment: res.Appointment,
		Persisted:   res.Persisted,
		Notified:    res.Notified,
	}
	if res.NotifyErr != nil {
		out.Warning = "Status updated, but the email notification could not be sent"
	}
	return out
}

// GetAvailability godoc
// @Summary Offerable slots for a date
// @Param date query string true "YYYY-MM-DD"
// @Router /api/appointments/availability [get]
func (ac *AppointmentController) GetAvailability(c *fiber.Ctx) error {
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		return badRequest(c, "Invalid date", err)
	}

	availability, err := ac.service.Availability(c.UserContext(), date)
	if err != nil {
		return respondError(c, err, "Failed to load availability")
	}
	return c.JSON(availability)
}

// CreateAppointment godoc
// @Summary Submit an appointment request
// @Router /api/appointments [post]
func (ac *AppointmentController) CreateAppointment(c *fiber.Ctx) error {
	var draft appointments.Draft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, "Failed to parse request body", err)
	}

	res, err := ac.service.Create(c.UserContext(), draft)
	if err != nil {
		return respondError(c, err, "Failed to submit appointment request. Please try again.")
	}
	return c.Status(fiber.StatusCreated).JSON(newResultResponse(res))
}

// GetAllAppointments godoc
// @Summary List appointments, optionally by status
// @Param status query string false "Appointment status"
// @Router /api/admin/appointments [get]
func (ac *AppointmentController) GetAllAppointments(c *fiber.Ctx) error {
	status := models.AppointmentStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return badRequest(c, "Unknown status "+string(status), nil)
	}

	appts, err := ac.lister.List(c.UserContext(), status)
	if err != nil {
		return respondError(c, err, "Failed to fetch appointments")
	}
	return c.JSON(appts)
}

// GetAppointmentsInRange godoc
// @Summary List appointments by preferred date, both dates inclusive
// @Param start query string true "YYYY-MM-DD"
// @Param end query string true "YYYY-MM-DD"
// @Router /api/admin/appointments/range [get]
func (ac *AppointmentController) GetAppointmentsInRange(c *fiber.Ctx) error {
	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		return badRequest(c, "Invalid start date", err)
	}
	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		return badRequest(c, "Invalid end date", err)
	}
	if end.Before(start) {
		return badRequest(c, "End date is before start date", nil)
	}

	appts, err := ac.lister.ListInRange(c.UserContext(), start, end.AddDate(0, 0, 1))
	if err != nil {
		return respondError(c, err, "Failed to fetch appointments")
	}
	return c.JSON(appts)
}

// GetAppointment godoc
// @Summary Get an appointment by ID
// @Router /api/admin/appointments/{id} [get]
func (ac *AppointmentController) GetAppointment(c *fiber.Ctx) error {
	appt, err := ac.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch appointment")
	}
	return c.JSON(appt)
}

type statusInput struct {
	Status       models.AppointmentStatus `json:"status"`
	Acknowledged bool                     `json:"acknowledged"`
}

// UpdateAppointmentStatus godoc
// @Summary Change an appointment's status
// @Description Moving away from confirmed or rejected needs acknowledged=true
// @Router /api/admin/appointments/{id}/status [patch]
func (ac *AppointmentController) UpdateAppointmentStatus(c *fiber.Ctx) error {
	var input statusInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Failed to parse request body", err)
	}
	if !input.Status.Valid() {
		return badRequest(c, "Unknown status "+string(input.Status), nil)
	}

	appt, err := ac.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch appointment")
	}

	if models.RequiresAcknowledgement(appt.Status, input.Status) && !input.Acknowledged {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "The customer was already notified that this appointment is " + string(appt.Status) +
				". Resend with acknowledged set to change it.",
			Error: "acknowledgement required",
		})
	}

	res, err := ac.service.SetStatus(c.UserContext(), appt, input.Status)
	if err != nil {
		return respondError(c, err, "Failed to update appointment status. Please try again.")
	}
	if session, ok := middleware.SessionFrom(c); ok {
		ac.logger.Info("status change requested", "appointment_id", appt.ID, "by", session.Email, "to", input.Status)
	}
	return c.JSON(newResultResponse(res))
}

// DeleteAppointment godoc
// @Summary Delete an appointment
// @Router /api/admin/appointments/{id} [delete]
func (ac *AppointmentController) DeleteAppointment(c *fiber.Ctx) error {
	if err := ac.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete appointment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
