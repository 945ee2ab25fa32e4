package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mralligator/appointment-scheduler/models"
)

// SettingsRepository stores the single scheduling settings row.
type SettingsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db, now: time.Now}
}

// Load returns the stored settings, or the defaults when none were saved.
func (r *SettingsRepository) Load(ctx context.Context) (models.SchedulingSettings, error) {
	var s models.SchedulingSettings
	err := r.db.WithContext(ctx).Where("id = ?", models.SettingsID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.SchedulingSettings{}, fmt.Errorf("repository: load settings: %w", err)
	}
	return s, nil
}

// Save validates and writes the settings, replacing whatever was stored.
func (r *SettingsRepository) Save(ctx context.Context, s models.SchedulingSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s = s.Normalize()
	s.UpdatedAt = r.now()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&s).Error
	if err != nil {
		return fmt.Errorf("repository: save settings: %w", err)
	}
	return nil
}
