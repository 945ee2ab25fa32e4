package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mralligator/appointment-scheduler/models"
)

// Migrate creates or updates the appointment and settings tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Appointment{},
		&models.SchedulingSettings{},
	)
	if err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
