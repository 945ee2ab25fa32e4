package models

import (
	"fmt"
	"time"
)

const (
	SlotLayout = "15:04"      // Format "HH:MM" in 24h
	DateLayout = "2006-01-02" // Calendar date
)

// SlotInterval is the fixed granularity of bookable slots.
const SlotInterval = 30 * time.Minute

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// BusinessHours bounds the slots offered on a bookable day. End is inclusive.
type BusinessHours struct {
	Start string `json:"start"` // Format "HH:MM" in 24h
	End   string `json:"end"`   // Format "HH:MM" in 24h
}

// ParseClock parses an "HH:MM" string into minutes past midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(SlotLayout, value)
	if err != nil || len(value) != len(SlotLayout) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Bounds returns the start and end of the business day in minutes past midnight.
func (h BusinessHours) Bounds() (start, end int, err error) {
	start, err = ParseClock(h.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("business hours start: %w", err)
	}
	end, err = ParseClock(h.End)
	if err != nil {
		return 0, 0, fmt.Errorf("business hours end: %w", err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("business hours end %s is before start %s", h.End, h.Start)
	}
	return start, end, nil
}
