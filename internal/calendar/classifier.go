package calendar

import (
	"time"

	"github.com/username/schedule-engine/pkg/dateutil"
)

// DefaultWeekend returns the weekend rule of the default locale
func DefaultWeekend() []time.Weekday {
	return []time.Weekday{time.Saturday, time.Sunday}
}

// Classifier tags dates as workday, weekend or holiday.
// Weekend takes priority over holiday, both are excluded from workable counts.
type Classifier struct {
	holidays HolidayCalendar
	weekend  [7]bool
}

// NewClassifier creates a classifier. With no weekend days given, DefaultWeekend() is used.
func NewClassifier(holidays HolidayCalendar, weekend ...time.Weekday) *Classifier {
	if holidays == nil {
		holidays = EmptyTable()
	}
	if len(weekend) == 0 {
		weekend = DefaultWeekend()
	}

	c := &Classifier{holidays: holidays}
	for _, wd := range weekend {
		c.weekend[wd] = true
	}
	return c
}

// Holidays returns the underlying holiday calendar
func (c *Classifier) Holidays() HolidayCalendar {
	return c.holidays
}

// WeekendDays returns the configured weekend days in Sunday-first order
func (c *Classifier) WeekendDays() []time.Weekday {
	var out []time.Weekday
	for wd, ok := range c.weekend {
		if ok {
			out = append(out, time.Weekday(wd))
		}
	}
	return out
}

// WorkdaysPerWeek is the number of weekdays that are not weekend days
func (c *Classifier) WorkdaysPerWeek() int {
	n := 0
	for _, weekend := range c.weekend {
		if !weekend {
			n++
		}
	}
	return n
}

// Classify returns exactly one of Weekend, Holiday or Workday
func (c *Classifier) Classify(date time.Time) DayType {
	return c.Day(date).Type
}

// IsWorkday checks if the given date counts as a business day
func (c *Classifier) IsWorkday(date time.Time) bool {
	return c.Classify(date) == DayTypeWorkday
}

// Day returns the classification of date with the holiday name as note
func (c *Classifier) Day(date time.Time) DayInfo {
	date = dateutil.ToDate(date)

	if c.weekend[date.Weekday()] {
		info := DayInfo{Date: date, Type: DayTypeWeekend}
		if h, ok := c.holidays.Lookup(date); ok {
			info.Note = h.Name
		}
		return info
	}
	if h, ok := c.holidays.Lookup(date); ok {
		return DayInfo{Date: date, Type: DayTypeHoliday, Note: h.Name}
	}
	return DayInfo{Date: date, Type: DayTypeWorkday}
}

// Range classifies every day from `from` to `to` inclusive. Empty when to is before from.
func (c *Classifier) Range(from, to time.Time) []DayInfo {
	from, to = dateutil.ToDate(from), dateutil.ToDate(to)
	if to.Before(from) {
		return []DayInfo{}
	}

	days := make([]DayInfo, 0, dateutil.DaysBetween(from, to)+1)
	for day := from; !day.After(to); day = dateutil.NextDay(day) {
		days = append(days, c.Day(day))
	}
	return days
}

// MonthInfo returns the classified days of a month with per-type counts
func (c *Classifier) MonthInfo(year int, month time.Month) *MonthInfo {
	first := dateutil.Date(year, month, 1)
	last := dateutil.Date(year, month, dateutil.DaysInMonth(year, month))

	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  c.Range(first, last),
	}

	for _, day := range monthInfo.Days {
		switch day.Type {
		case DayTypeWorkday:
			monthInfo.WorkDays++
		case DayTypeWeekend:
			monthInfo.Weekends++
		case DayTypeHoliday:
			monthInfo.Holidays++
		}
	}

	return monthInfo
}

// HolidaysInYear lists the holidays of the year from the underlying calendar,
// including those falling on weekend days
func (c *Classifier) HolidaysInYear(year int) []Holiday {
	out := []Holiday{}
	for day := dateutil.Date(year, time.January, 1); day.Year() == year; day = dateutil.NextDay(day) {
		if h, ok := c.holidays.Lookup(day); ok {
			out = append(out, h)
		}
	}
	return out
}
