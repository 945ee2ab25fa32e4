package utils

import (
	"fmt"
	"time"

	"github.com/mralligator/appointment-scheduler/models"
)

// StartOfDay truncates t to local midnight on the same calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayBounds returns [midnight, next midnight) for the calendar date of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// ParseDate parses a YYYY-MM-DD string as a naive local calendar date.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// AtSlot combines a calendar date with an "HH:MM" slot time.
func AtSlot(date time.Time, slot string) (time.Time, error) {
	minutes, err := models.ParseClock(slot)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, date.Location()), nil
}
