package schedule

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/username/schedule-engine/pkg/errors"
)

// Policy selects how a duration in days is counted
type Policy int

const (
	// PolicyCalendar counts every day, weekends and holidays included
	PolicyCalendar Policy = iota
	// PolicyBusiness counts only workdays
	PolicyBusiness
)

// PolicyFor maps the "use business days" flag to a policy
func PolicyFor(businessDays bool) Policy {
	if businessDays {
		return PolicyBusiness
	}
	return PolicyCalendar
}

func (p Policy) String() string {
	switch p {
	case PolicyCalendar:
		return "calendar"
	case PolicyBusiness:
		return "business"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePolicy accepts "calendar" or "business" (and their Spanish forms)
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "calendar", "calendario", "natural":
		return PolicyCalendar, nil
	case "business", "habiles", "hábiles", "laborables":
		return PolicyBusiness, nil
	}
	return PolicyCalendar, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "unknown day-count policy %q", s)
}

// Policies lists the recognized policies
func Policies() []Policy {
	return []Policy{PolicyCalendar, PolicyBusiness}
}

const (
	// DefaultMaxTotalDays caps a schedule at about ten years
	DefaultMaxTotalDays = 3650
	// MaxTotalDaysCeiling is the largest cap a deployment may configure and the largest
	// single step the advancer accepts
	MaxTotalDaysCeiling = 36500
)

// MonthConversion turns a duration in months into days. It is an approximation kept as
// configuration so estimates do not drift with real month lengths.
type MonthConversion struct {
	CalendarDaysPerMonth int `json:"calendar_days_per_month"`
	BusinessDaysPerMonth int `json:"business_days_per_month"`
}

// DefaultMonthConversion is 30 calendar days or 22 business days per month
var DefaultMonthConversion = MonthConversion{
	CalendarDaysPerMonth: 30,
	BusinessDaysPerMonth: 22,
}

// Validate checks both constants are positive
func (m MonthConversion) Validate() error {
	if m.CalendarDaysPerMonth <= 0 || m.BusinessDaysPerMonth <= 0 {
		return apperrors.Clonef(apperrors.ErrInvalidConfiguration,
			"days per month must be positive (calendar=%d, business=%d)",
			m.CalendarDaysPerMonth, m.BusinessDaysPerMonth)
	}
	return nil
}

// PerMonth returns the days-per-month constant for the policy
func (m MonthConversion) PerMonth(policy Policy) int {
	if policy == PolicyBusiness {
		return m.BusinessDaysPerMonth
	}
	return m.CalendarDaysPerMonth
}

// Days converts months to a whole number of days, rounding half away from zero
func (m MonthConversion) Days(months float64, policy Policy) int {
	return int(math.Round(months * float64(m.PerMonth(policy))))
}
