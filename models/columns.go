package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Weekdays is a set of days stored as a JSON array, e.g. [1,2,3,4,5].
type Weekdays []DayOfWeek

// Value implements the driver.Valuer interface
func (w Weekdays) Value() (driver.Value, error) {
	if w == nil {
		w = Weekdays{}
	}
	jsonData, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (w *Weekdays) Scan(value interface{}) error {
	return scanJSON(value, w, "Weekdays")
}

func (w Weekdays) Contains(day time.Weekday) bool {
	for _, d := range w {
		if int(d) == int(day) {
			return true
		}
	}
	return false
}

// Normalized returns the days sorted with duplicates removed.
func (w Weekdays) Normalized() Weekdays {
	seen := make(map[DayOfWeek]bool, len(w))
	out := make(Weekdays, 0, len(w))
	for _, d := range w {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DateList is a set of calendar dates in YYYY-MM-DD form stored as a JSON array.
type DateList []string

// Value implements the driver.Valuer interface
func (d DateList) Value() (driver.Value, error) {
	if d == nil {
		d = DateList{}
	}
	jsonData, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (d *DateList) Scan(value interface{}) error {
	return scanJSON(value, d, "DateList")
}

// Contains compares by calendar date, ignoring the time of day.
func (d DateList) Contains(date time.Time) bool {
	key := date.Format(DateLayout)
	for _, excluded := range d {
		if excluded == key {
			return true
		}
	}
	return false
}

func scanJSON(value interface{}, dest interface{}, name string) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal %s: unsupported type %T", name, value)
	}

	return json.Unmarshal(data, dest)
}
