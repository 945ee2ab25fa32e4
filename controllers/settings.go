package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/models"
)

// SettingsStore is the scheduling settings persistence.
type SettingsStore interface {
	Load(ctx context.Context) (models.SchedulingSettings, error)
	Save(ctx context.Context, s models.SchedulingSettings) error
}

type SettingsController struct {
	store  SettingsStore
	logger *logging.Logger
}

func NewSettingsController(store SettingsStore, logger *logging.Logger) *SettingsController {
	if logger == nil {
		logger = logging.Default()
	}
	return &SettingsController{store: store, logger: logger}
}

// GetSettings returns the current settings, or the defaults if none were saved.
func (sc *SettingsController) GetSettings(c *fiber.Ctx) error {
	s, err := sc.store.Load(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to get scheduling settings")
	}
	return c.JSON(s)
}

// UpdateSettings replaces the settings. Missing fields, malformed hours or
// an inverted advance window are rejected before anything is written.
func (sc *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	input := new(models.SettingsInput)
	if err := c.BodyParser(input); err != nil {
		return badRequest(c, "Failed to parse request body", err)
	}

	normalized, err := input.Settings()
	if err != nil {
		return respondError(c, err, "Invalid scheduling settings")
	}
	if err := sc.store.Save(c.UserContext(), normalized); err != nil {
		return respondError(c, err, "Failed to save scheduling settings")
	}
	sc.logger.Info("scheduling settings updated", "enabled", normalized.Enabled, "days", len(normalized.AvailableDays))
	return c.JSON(normalized)
}
