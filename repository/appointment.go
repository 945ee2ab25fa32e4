package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mralligator/appointment-scheduler/models"
	"github.com/mralligator/appointment-scheduler/utils"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("repository: not found")

// AppointmentRepository persists appointments with GORM.
type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Save upserts the full record by id, assigning a new id when it is empty.
func (r *AppointmentRepository) Save(ctx context.Context, appt models.Appointment) (models.Appointment, error) {
	if appt.ID == "" {
		appt.ID = utils.GenerateID()
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"customer_name", "customer_email", "customer_phone", "service_type",
				"preferred_date", "alternative_date", "description", "status", "updated_at",
			}),
		}).
		Create(&appt).Error
	if err != nil {
		return models.Appointment{}, fmt.Errorf("repository: save appointment %s: %w", appt.ID, err)
	}
	return appt, nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Appointment{}, ErrNotFound
	}
	if err != nil {
		return models.Appointment{}, fmt.Errorf("repository: get appointment %s: %w", id, err)
	}
	return appt, nil
}

// Delete removes the row permanently.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Appointment{})
	if res.Error != nil {
		return fmt.Errorf("repository: delete appointment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInRange returns appointments whose preferred date falls in [start, end),
// earliest first.
func (r *AppointmentRepository) ListInRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("preferred_date >= ? AND preferred_date < ?", start, end).
		Order("preferred_date asc").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("repository: list appointments in range: %w", err)
	}
	return appts, nil
}

// List returns every appointment, most recently updated first. A non-empty
// status narrows the result to that status.
func (r *AppointmentRepository) List(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var appts []models.Appointment
	if err := q.Order("updated_at desc").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("repository: list appointments: %w", err)
	}
	return appts, nil
}

// ListConfirmedOn returns the confirmed appointments on the calendar date of day.
func (r *AppointmentRepository) ListConfirmedOn(ctx context.Context, day time.Time) ([]models.Appointment, error) {
	start, end := utils.DayBounds(day)

	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND preferred_date >= ? AND preferred_date < ?", models.StatusConfirmed, start, end).
		Order("preferred_date asc").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("repository: list confirmed appointments: %w", err)
	}
	return appts, nil
}
