package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mralligator/appointment-scheduler/appointments"
	"github.com/mralligator/appointment-scheduler/models"
	"github.com/mralligator/appointment-scheduler/repository"
	"github.com/mralligator/appointment-scheduler/utils"
)

// respondError maps core errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error, msg string) error {
	var verr *appointments.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Please correct the highlighted fields",
			Error:   err.Error(),
			Fields:  verr.Fields,
		})
	}

	var cerr *models.ConfigError
	if errors.As(err, &cerr) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid scheduling settings",
			Error:   err.Error(),
			Fields:  cerr.Fields,
		})
	}

	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: msg,
		Error:   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string, err error) error {
	resp := utils.ErrorResponse{Message: msg}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}
