package calendar

import (
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar merges several holiday calendars.
// A date is a holiday when any member reports it; the first member to match names it.
type CompositeCalendar struct {
	members []HolidayCalendar
}

// NewCompositeCalendar creates a new CompositeCalendar, skipping nil members
func NewCompositeCalendar(logger *zap.Logger, members ...HolidayCalendar) *CompositeCalendar {
	cc := &CompositeCalendar{}
	for _, m := range members {
		if m != nil {
			cc.members = append(cc.members, m)
		}
	}

	logger.Debug("Holiday calendar assembled",
		zap.Int("members", len(cc.members)))

	return cc
}

// IsHoliday checks if any member marks the date as a holiday
func (cc *CompositeCalendar) IsHoliday(date time.Time) bool {
	_, ok := cc.Lookup(date)
	return ok
}

// Lookup returns the first member's holiday on date
func (cc *CompositeCalendar) Lookup(date time.Time) (Holiday, bool) {
	for _, m := range cc.members {
		if h, ok := m.Lookup(date); ok {
			return h, true
		}
	}
	return Holiday{}, false
}
