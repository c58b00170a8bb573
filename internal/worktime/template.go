package worktime

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "github.com/username/schedule-engine/pkg/errors"
)

const (
	// CustomID selects a free-form schedule parsed by ParseCustom
	CustomID = "custom"

	// DefaultHoursPerDay is used when a custom schedule cannot be parsed
	DefaultHoursPerDay = 8.0
)

// Clock is a time of day in minutes since midnight
type Clock int

// At builds a Clock from hours and minutes
func At(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// String renders the clock as HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalText implements encoding.TextMarshaler
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Clock) UnmarshalText(text []byte) error {
	var h, m int
	if _, err := fmt.Sscanf(string(text), "%d:%d", &h, &m); err != nil || h < 0 || h > 24 || m < 0 || m > 59 {
		return fmt.Errorf("invalid clock %q", string(text))
	}
	*c = At(h, m)
	return nil
}

// TimeRange is a half-open [Start, End) span of working time within a day
type TimeRange struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

// Minutes returns the length of the range
func (r TimeRange) Minutes() int {
	return int(r.End - r.Start)
}

// String renders the range as HH:MM-HH:MM
func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Template describes the daily work hours used to turn days into hours
type Template struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Ranges      []TimeRange `json:"ranges"`
	HoursPerDay float64     `json:"hours_per_day"`
	// Approximate is set when HoursPerDay is the fallback rather than derived from ranges
	Approximate bool `json:"approximate,omitempty"`
}

// NewTemplate validates the ranges and derives HoursPerDay once
func NewTemplate(id, label string, ranges ...TimeRange) (Template, error) {
	if id == "" {
		return Template{}, apperrors.Clone(apperrors.ErrInvalidConfiguration, "work schedule template id is required")
	}
	if err := validateRanges(ranges); err != nil {
		return Template{}, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "template %q: %v", id, err)
	}

	return Template{
		ID:          id,
		Label:       label,
		Description: describe(ranges),
		Ranges:      append([]TimeRange(nil), ranges...),
		HoursPerDay: hoursOf(ranges),
	}, nil
}

func validateRanges(ranges []TimeRange) error {
	if len(ranges) == 0 {
		return fmt.Errorf("at least one time range is required")
	}
	var prevEnd Clock
	for i, r := range ranges {
		if r.Start < 0 || r.End > At(24, 0) {
			return fmt.Errorf("range %s is outside the day", r)
		}
		if r.End <= r.Start {
			return fmt.Errorf("range %s ends before it starts", r)
		}
		if i > 0 && r.Start < prevEnd {
			return fmt.Errorf("range %s overlaps or precedes the previous one", r)
		}
		prevEnd = r.End
	}
	return nil
}

func hoursOf(ranges []TimeRange) float64 {
	minutes := 0
	for _, r := range ranges {
		minutes += r.Minutes()
	}
	return math.Round(float64(minutes)/60*100) / 100
}

func describe(ranges []TimeRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// Registry maps template identifiers to templates. Immutable after construction.
type Registry struct {
	templates map[string]Template
}

// NewRegistry builds a registry; duplicate ids and the reserved custom id are rejected
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if t.ID == CustomID {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "template id %q is reserved", CustomID)
		}
		if _, ok := r.templates[t.ID]; ok {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "duplicate template id %q", t.ID)
		}
		r.templates[t.ID] = t
	}
	return r, nil
}

// Get returns the template registered under id
func (r *Registry) Get(id string) (Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return Template{}, apperrors.Clonef(apperrors.ErrNotFound, "work schedule template %q not found", id)
	}
	return t, nil
}

// Resolve returns the preset for id, or parses custom text when id is CustomID
func (r *Registry) Resolve(id, custom string) (Template, error) {
	if id == CustomID {
		return ParseCustom(custom), nil
	}
	return r.Get(id)
}

// List returns all presets ordered by id
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func mustTemplate(id, label string, ranges ...TimeRange) Template {
	t, err := NewTemplate(id, label, ranges...)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in template: %v", err))
	}
	return t
}

// Presets returns the built-in work schedule templates
func Presets() []Template {
	return []Template{
		mustTemplate("oficina", "Jornada de oficina",
			TimeRange{At(9, 0), At(13, 0)}, TimeRange{At(14, 0), At(18, 0)}),
		mustTemplate("construccion", "Jornada de construcción",
			TimeRange{At(8, 0), At(13, 0)}, TimeRange{At(14, 0), At(17, 0)}),
		mustTemplate("comercio", "Horario de comercio",
			TimeRange{At(10, 0), At(14, 0)}, TimeRange{At(16, 0), At(20, 0)}),
		mustTemplate("medio_tiempo", "Media jornada",
			TimeRange{At(9, 0), At(13, 0)}),
		mustTemplate("turno_extendido", "Turno extendido",
			TimeRange{At(7, 0), At(13, 0)}, TimeRange{At(14, 0), At(19, 0)}),
	}
}

// DefaultRegistry returns a registry holding the built-in presets
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Presets()...)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in registry: %v", err))
	}
	return r
}
