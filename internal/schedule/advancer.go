package schedule

import (
	"time"

	"github.com/username/schedule-engine/internal/calendar"
	"github.com/username/schedule-engine/pkg/dateutil"
	apperrors "github.com/username/schedule-engine/pkg/errors"
)

// MaxLookahead bounds the business-day walk for n counted days on a calendar with
// workdaysPerWeek workdays. Five or more workdays keep the n*3+30 bound; fewer
// workdays stretch it proportionally.
func MaxLookahead(n, workdaysPerWeek int) int {
	limit := n*3 + 30
	if workdaysPerWeek > 0 && workdaysPerWeek < 5 {
		limit = limit * 5 / workdaysPerWeek
	}
	return limit
}

// Advancer moves dates forward by a number of days under a policy.
// It is the only place day counting happens.
type Advancer struct {
	classifier *calendar.Classifier
}

// NewAdvancer creates an advancer over the given classifier
func NewAdvancer(classifier *calendar.Classifier) *Advancer {
	return &Advancer{classifier: classifier}
}

// Advance returns the end date of an n-day duration beginning on start.
//
// Calendar: start + n days.
// Business: the date of the n-th workday, counting start as day 1 when it is a workday.
// A non-workday start is first moved to the next workday. n = 0 returns start unchanged.
func (a *Advancer) Advance(start time.Time, n int, policy Policy) (time.Time, error) {
	start = dateutil.ToDate(start)
	if n < 0 {
		return time.Time{}, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "duration must not be negative, got %d", n)
	}
	if n == 0 {
		return start, nil
	}
	if policy == PolicyBusiness {
		return a.Continue(dateutil.PrevDay(start), n, policy)
	}
	return a.Continue(start, n, policy)
}

// Continue advances n days from a boundary date that has already been consumed.
//
// Calendar: from + n days.
// Business: the n-th workday strictly after from.
// Chaining Continue is additive, which keeps consecutive phases contiguous.
func (a *Advancer) Continue(from time.Time, n int, policy Policy) (time.Time, error) {
	from = dateutil.ToDate(from)
	if n < 0 {
		return time.Time{}, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "duration must not be negative, got %d", n)
	}
	if n > MaxTotalDaysCeiling {
		return time.Time{}, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
			"duration of %d days exceeds the limit of %d days", n, MaxTotalDaysCeiling)
	}
	if n == 0 {
		return from, nil
	}

	switch policy {
	case PolicyCalendar:
		return dateutil.AddDays(from, n), nil
	case PolicyBusiness:
		limit := MaxLookahead(n, a.classifier.WorkdaysPerWeek())
		day := from
		counted := 0
		for step := 0; step < limit; step++ {
			day = dateutil.NextDay(day)
			if a.classifier.IsWorkday(day) {
				counted++
				if counted == n {
					return day, nil
				}
			}
		}
		return time.Time{}, apperrors.Clonef(apperrors.ErrUnreachableSchedule,
			"only %d of %d workdays found within %d days after %s",
			counted, n, limit, dateutil.Format(from))
	}

	return time.Time{}, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "unknown day-count policy %d", int(policy))
}

// Normalize returns the first date on or after start that business counting starts from,
// and whether it differs from start. Under the calendar policy start is returned as is.
func (a *Advancer) Normalize(start time.Time, policy Policy) (time.Time, bool, error) {
	start = dateutil.ToDate(start)
	if policy != PolicyBusiness || a.classifier.IsWorkday(start) {
		return start, false, nil
	}

	first, err := a.Continue(start, 1, policy)
	if err != nil {
		return time.Time{}, false, err
	}
	return first, true, nil
}
