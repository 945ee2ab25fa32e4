package utils

import (
	"fmt"
	"time"

	"github.com/mralligator/appointment-scheduler/models"
)

// IsDateBookable reports whether customers may request date, measured
// against today's local calendar date.
func IsDateBookable(date time.Time, settings models.SchedulingSettings) bool {
	return IsDateBookableOn(date, time.Now(), settings)
}

// IsDateBookableOn is IsDateBookable with an explicit "today". Checks run in
// order and stop at the first failure: scheduling enabled, weekday allowed,
// inside the advance window, not an excluded date.
func IsDateBookableOn(date, today time.Time, settings models.SchedulingSettings) bool {
	if !settings.Enabled {
		return false
	}

	if !settings.AvailableDays.Contains(date.Weekday()) {
		return false
	}

	day := StartOfDay(date)
	base := StartOfDay(today.In(date.Location()))
	earliest := base.AddDate(0, 0, settings.MinDaysInAdvance)
	latest := base.AddDate(0, 0, settings.MaxDaysInAdvance)
	if day.Before(earliest) || day.After(latest) {
		return false
	}

	return !settings.ExcludedDates.Contains(date)
}

// GenerateTimeSlots emits one available slot every 30 minutes from the start
// of business hours through the end, both inclusive.
func GenerateTimeSlots(hours models.BusinessHours) ([]models.TimeSlot, error) {
	start, end, err := hours.Bounds()
	if err != nil {
		return nil, fmt.Errorf("generate time slots: %w", err)
	}

	step := int(models.SlotInterval / time.Minute)
	slots := make([]models.TimeSlot, 0, (end-start)/step+1)
	for m := start; m <= end; m += step {
		slots = append(slots, models.TimeSlot{
			Time:      fmt.Sprintf("%02d:%02d", m/60, m%60),
			Available: true,
		})
	}
	return slots, nil
}

// MarkUnavailable returns a copy of slots with every exact HH:MM match in
// bookedTimes flipped to unavailable.
func MarkUnavailable(slots []models.TimeSlot, bookedTimes []string) []models.TimeSlot {
	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = true
	}

	out := make([]models.TimeSlot, len(slots))
	for i, slot := range slots {
		out[i] = models.TimeSlot{Time: slot.Time, Available: slot.Available && !booked[slot.Time]}
	}
	return out
}

// BookedTimes extracts the HH:MM start time of each appointment.
func BookedTimes(appointments []models.Appointment) []string {
	times := make([]string, 0, len(appointments))
	for _, a := range appointments {
		times = append(times, a.SlotTime())
	}
	return times
}

// IsSlot reports whether value is one of the generated slot times.
func IsSlot(value string, hours models.BusinessHours) bool {
	slots, err := GenerateTimeSlots(hours)
	if err != nil {
		return false
	}
	for _, s := range slots {
		if s.Time == value {
			return true
		}
	}
	return false
}
