package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SettingsID is the primary key of the single settings row.
const SettingsID = "appointment_settings"

// SchedulingSettings is the administrator-editable booking configuration.
type SchedulingSettings struct {
	ID               string        `json:"-" gorm:"primaryKey;size:64"`
	Enabled          bool          `json:"enabled"`
	AvailableDays    Weekdays      `json:"availableDays" gorm:"type:jsonb"`
	BusinessHours    BusinessHours `json:"businessHours" gorm:"embedded;embeddedPrefix:business_hours_"`
	MinDaysInAdvance int           `json:"minDaysInAdvance"`
	MaxDaysInAdvance int           `json:"maxDaysInAdvance"`
	ExcludedDates    DateList      `json:"excludedDates" gorm:"type:jsonb"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// DefaultSettings is used when nothing has been saved yet.
func DefaultSettings() SchedulingSettings {
	return SchedulingSettings{
		ID:               SettingsID,
		Enabled:          true,
		AvailableDays:    Weekdays{Monday, Tuesday, Wednesday, Thursday, Friday},
		BusinessHours:    BusinessHours{Start: "09:00", End: "17:00"},
		MinDaysInAdvance: 1,
		MaxDaysInAdvance: 30,
		ExcludedDates:    DateList{},
	}
}

// ConfigError lists every malformed settings field by its JSON name.
type ConfigError struct {
	Fields map[string]string
}

func (e *ConfigError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid scheduling settings: " + strings.Join(parts, "; ")
}

// Validate rejects settings the availability engine cannot evaluate.
func (s SchedulingSettings) Validate() error {
	fields := map[string]string{}

	if _, err := ParseClock(s.BusinessHours.Start); err != nil {
		fields["businessHours.start"] = err.Error()
	}
	if _, err := ParseClock(s.BusinessHours.End); err != nil {
		fields["businessHours.end"] = err.Error()
	}
	if len(fields) == 0 {
		if _, _, err := s.BusinessHours.Bounds(); err != nil {
			fields["businessHours"] = err.Error()
		}
	}

	if s.MinDaysInAdvance < 0 {
		fields["minDaysInAdvance"] = "must not be negative"
	}
	if s.MaxDaysInAdvance < s.MinDaysInAdvance {
		fields["maxDaysInAdvance"] = fmt.Sprintf("must be at least minDaysInAdvance (%d)", s.MinDaysInAdvance)
	}

	for _, d := range s.AvailableDays {
		if d < Sunday || d > Saturday {
			fields["availableDays"] = fmt.Sprintf("day %d is outside 0..6", d)
			break
		}
	}

	for _, date := range s.ExcludedDates {
		if _, err := time.Parse(DateLayout, date); err != nil {
			fields["excludedDates"] = fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)
			break
		}
	}

	if len(fields) > 0 {
		return &ConfigError{Fields: fields}
	}
	return nil
}

// Normalize fills the row id and dedupes the set-valued fields.
func (s SchedulingSettings) Normalize() SchedulingSettings {
	s.ID = SettingsID
	s.AvailableDays = s.AvailableDays.Normalized()
	if s.ExcludedDates == nil {
		s.ExcludedDates = DateList{}
	}
	seen := map[string]bool{}
	dates := make(DateList, 0, len(s.ExcludedDates))
	for _, d := range s.ExcludedDates {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	s.ExcludedDates = dates
	return s
}

// SettingsInput is the body of a settings update. Every field must be
// present; a missing field is reported instead of defaulted.
type SettingsInput struct {
	Enabled          *bool          `json:"enabled"`
	AvailableDays    *Weekdays      `json:"availableDays"`
	BusinessHours    *BusinessHours `json:"businessHours"`
	MinDaysInAdvance *int           `json:"minDaysInAdvance"`
	MaxDaysInAdvance *int           `json:"maxDaysInAdvance"`
	ExcludedDates    *DateList      `json:"excludedDates"`
}

// Settings checks every field is present and returns the normalized,
// validated settings.
func (in SettingsInput) Settings() (SchedulingSettings, error) {
	fields := map[string]string{}
	missing := func(name string) { fields[name] = "is required" }

	var s SchedulingSettings
	if in.Enabled == nil {
		missing("enabled")
	} else {
		s.Enabled = *in.Enabled
	}
	if in.AvailableDays == nil {
		missing("availableDays")
	} else {
		s.AvailableDays = *in.AvailableDays
	}
	if in.BusinessHours == nil {
		missing("businessHours")
	} else {
		s.BusinessHours = *in.BusinessHours
	}
	if in.MinDaysInAdvance == nil {
		missing("minDaysInAdvance")
	} else {
		s.MinDaysInAdvance = *in.MinDaysInAdvance
	}
	if in.MaxDaysInAdvance == nil {
		missing("maxDaysInAdvance")
	} else {
		s.MaxDaysInAdvance = *in.MaxDaysInAdvance
	}
	if in.ExcludedDates == nil {
		missing("excludedDates")
	} else {
		s.ExcludedDates = *in.ExcludedDates
	}
	if len(fields) > 0 {
		return SchedulingSettings{}, &ConfigError{Fields: fields}
	}

	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return SchedulingSettings{}, err
	}
	return s, nil
}

// TimeSlot is one offerable start time on a bookable day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
