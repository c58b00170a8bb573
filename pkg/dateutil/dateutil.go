package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical textual form of a Date
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ToDate strips the time of day and returns the date at 00:00 UTC.
// UTC only carries the calendar date; no zone conversion is applied.
func ToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a Date from its components
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddDays moves a Date by n whole days
func AddDays(date time.Time, n int) time.Time {
	return ToDate(date).AddDate(0, 0, n)
}

// NextDay returns the day after date
func NextDay(date time.Time) time.Time {
	return AddDays(date, 1)
}

// PrevDay returns the day before date
func PrevDay(date time.Time) time.Time {
	return AddDays(date, -1)
}

// DaysBetween returns the number of calendar days from a to b (negative if b is before a).
// Works on Unix seconds so spans beyond time.Duration's ~292 years stay exact.
func DaysBetween(a, b time.Time) int {
	return int((ToDate(b).Unix() - ToDate(a).Unix()) / secondsPerDay)
}

// DaysInMonth returns the number of days of the month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Format renders a Date as YYYY-MM-DD
func Format(date time.Time) string {
	return date.Format(Layout)
}

// ParseDate parses a date string in the supported formats and drops the time of day
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"02-01-2006",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	dateStr = strings.TrimSpace(dateStr)
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return ToDate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// ParseWeekday parses an English or Spanish weekday name
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday", "sun", "domingo":
		return time.Sunday, nil
	case "monday", "mon", "lunes":
		return time.Monday, nil
	case "tuesday", "tue", "martes":
		return time.Tuesday, nil
	case "wednesday", "wed", "miercoles", "miércoles":
		return time.Wednesday, nil
	case "thursday", "thu", "jueves":
		return time.Thursday, nil
	case "friday", "fri", "viernes":
		return time.Friday, nil
	case "saturday", "sat", "sabado", "sábado":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// Today returns today's date
func Today() time.Time {
	return ToDate(time.Now())
}
