package calendar

import (
	"fmt"
	"time"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

// String returns the lower-case name used in JSON and CLI output
func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	}
	return fmt.Sprintf("DayType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler
func (t DayType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *DayType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "workday":
		*t = DayTypeWorkday
	case "weekend":
		*t = DayTypeWeekend
	case "holiday":
		*t = DayTypeHoliday
	default:
		return fmt.Errorf("unknown day type %q", string(text))
	}
	return nil
}

// DayInfo is a single date tagged with its classification
type DayInfo struct {
	Date time.Time `json:"date"`
	Type DayType   `json:"type"`
	Note string    `json:"note,omitempty"`
}

// IsWorkday reports whether the day counts toward business-day durations
func (d DayInfo) IsWorkday() bool {
	return d.Type == DayTypeWorkday
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	WorkDays int        `json:"work_days"`
	Weekends int        `json:"weekends"`
	Holidays int        `json:"holidays"`
	Days     []DayInfo  `json:"days"`
}

// Holiday is a non-working date resolved for a concrete year
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// HolidayCalendar answers whether a date is a recognized non-working holiday
type HolidayCalendar interface {
	// IsHoliday checks if the given date is a holiday
	IsHoliday(date time.Time) bool

	// Lookup returns the holiday falling on date, if any
	Lookup(date time.Time) (Holiday, bool)
}
