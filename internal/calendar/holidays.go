package calendar

import (
	"fmt"
	"time"

	"github.com/username/schedule-engine/pkg/dateutil"
	apperrors "github.com/username/schedule-engine/pkg/errors"
)

// DefaultTableVersion identifies the compiled-in national holiday table
const DefaultTableVersion = "CL-2025.1"

// FixedHoliday recurs every year on the same month and day
type FixedHoliday struct {
	Month time.Month
	Day   int
	Name  string
}

// EasterHoliday is a movable holiday expressed as an offset in days from Easter Sunday
type EasterHoliday struct {
	Offset int
	Name   string
}

// DatedHoliday is a one-off holiday on an explicit date
type DatedHoliday struct {
	Date time.Time
	Name string
}

type monthDay struct {
	month time.Month
	day   int
}

// Table is an immutable holiday calendar built from fixed, Easter-relative and dated entries
type Table struct {
	version string
	fixed   map[monthDay]string
	movable []EasterHoliday
	dated   map[time.Time]string
}

// NewTable validates the entries and builds a Table. Duplicate dates are rejected.
func NewTable(version string, fixed []FixedHoliday, movable []EasterHoliday, dated []DatedHoliday) (*Table, error) {
	t := &Table{
		version: version,
		fixed:   make(map[monthDay]string, len(fixed)),
		movable: make([]EasterHoliday, 0, len(movable)),
		dated:   make(map[time.Time]string, len(dated)),
	}

	for _, h := range fixed {
		// 2024 is a leap year, so Feb 29 is accepted as a recurring date
		if h.Day < 1 || h.Day > dateutil.DaysInMonth(2024, h.Month) {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
				"holiday %q has invalid date %02d-%02d", h.Name, int(h.Month), h.Day)
		}
		key := monthDay{month: h.Month, day: h.Day}
		if existing, ok := t.fixed[key]; ok {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
				"duplicate holiday %02d-%02d (%q and %q)", int(h.Month), h.Day, existing, h.Name)
		}
		t.fixed[key] = h.Name
	}

	offsets := make(map[int]string, len(movable))
	for _, h := range movable {
		if existing, ok := offsets[h.Offset]; ok {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
				"duplicate Easter offset %d (%q and %q)", h.Offset, existing, h.Name)
		}
		offsets[h.Offset] = h.Name
		t.movable = append(t.movable, h)
	}

	for _, h := range dated {
		date := dateutil.ToDate(h.Date)
		if existing, ok := t.dated[date]; ok {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
				"duplicate holiday %s (%q and %q)", dateutil.Format(date), existing, h.Name)
		}
		if existing, ok := t.fixed[monthDay{month: date.Month(), day: date.Day()}]; ok {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
				"holiday %s (%q) duplicates recurring holiday %q", dateutil.Format(date), h.Name, existing)
		}
		t.dated[date] = h.Name
	}

	return t, nil
}

// EmptyTable returns a calendar without holidays
func EmptyTable() *Table {
	t, _ := NewTable("empty", nil, nil, nil)
	return t
}

// Version returns the table version label
func (t *Table) Version() string {
	return t.version
}

// IsHoliday checks if the given date is a holiday
func (t *Table) IsHoliday(date time.Time) bool {
	_, ok := t.Lookup(date)
	return ok
}

// Lookup returns the holiday on date. Dated entries win over recurring ones.
func (t *Table) Lookup(date time.Time) (Holiday, bool) {
	date = dateutil.ToDate(date)

	if name, ok := t.dated[date]; ok {
		return Holiday{Date: date, Name: name}, true
	}
	if name, ok := t.fixed[monthDay{month: date.Month(), day: date.Day()}]; ok {
		return Holiday{Date: date, Name: name}, true
	}
	if len(t.movable) > 0 {
		easter := EasterSunday(date.Year())
		for _, h := range t.movable {
			if dateutil.AddDays(easter, h.Offset).Equal(date) {
				return Holiday{Date: date, Name: h.Name}, true
			}
		}
	}

	return Holiday{}, false
}

// EasterSunday computes the Gregorian Easter date (anonymous Gregorian computus)
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return dateutil.Date(year, time.Month(month), day)
}

var defaultFixed = []FixedHoliday{
	{time.January, 1, "Año Nuevo"},
	{time.May, 1, "Día Nacional del Trabajo"},
	{time.May, 21, "Día de las Glorias Navales"},
	{time.June, 29, "San Pedro y San Pablo"},
	{time.July, 16, "Día de la Virgen del Carmen"},
	{time.August, 15, "Asunción de la Virgen"},
	{time.September, 18, "Independencia Nacional"},
	{time.September, 19, "Día de las Glorias del Ejército"},
	{time.October, 12, "Encuentro de Dos Mundos"},
	{time.October, 31, "Día de las Iglesias Evangélicas y Protestantes"},
	{time.November, 1, "Día de Todos los Santos"},
	{time.December, 8, "Inmaculada Concepción"},
	{time.December, 25, "Navidad"},
}

var defaultMovable = []EasterHoliday{
	{-2, "Viernes Santo"},
	{-1, "Sábado Santo"},
}

var defaultDated = []DatedHoliday{
	{dateutil.Date(2024, time.June, 20), "Día Nacional de los Pueblos Indígenas"},
	{dateutil.Date(2025, time.June, 20), "Día Nacional de los Pueblos Indígenas"},
	{dateutil.Date(2025, time.November, 16), "Elecciones Presidenciales y Parlamentarias"},
	{dateutil.Date(2025, time.December, 14), "Segunda Vuelta Presidencial"},
}

// DefaultTable returns the compiled-in national holiday table
func DefaultTable() *Table {
	t, err := NewTable(DefaultTableVersion, defaultFixed, defaultMovable, defaultDated)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in holiday table: %v", err))
	}
	return t
}
