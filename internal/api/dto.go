package api

import (
	"github.com/username/schedule-engine/internal/schedule"
	"github.com/username/schedule-engine/pkg/dateutil"
	apperrors "github.com/username/schedule-engine/pkg/errors"
)

// PhaseRequest is one requested phase: explicit days or a proportional weight.
type PhaseRequest struct {
	Name   string  `json:"name" validate:"max=120"`
	Days   int     `json:"days" validate:"gte=0,lte=36500"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// ComputeRequest carries a schedule configuration. Tag bounds reject absurd sizes before the
// engine applies its configured schedule.max_total_days.
type ComputeRequest struct {
	StartDate      string         `json:"start_date" validate:"required"`
	DurationMonths float64        `json:"duration_months" validate:"gte=0,lte=1200"`
	BusinessDays   bool           `json:"business_days"`
	TemplateID     string         `json:"template_id" validate:"required"`
	CustomSchedule string         `json:"custom_schedule" validate:"required_if=TemplateID custom,max=500"`
	Phases         []PhaseRequest `json:"phases" validate:"omitempty,max=100,dive"`
}

// Configuration converts the request into an engine configuration.
func (r ComputeRequest) Configuration() (schedule.Configuration, error) {
	start, err := dateutil.ParseDate(r.StartDate)
	if err != nil {
		return schedule.Configuration{}, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "start_date: %v", err)
	}

	cfg := schedule.Configuration{
		StartDate:      start,
		DurationMonths: r.DurationMonths,
		BusinessDays:   r.BusinessDays,
		TemplateID:     r.TemplateID,
		CustomSchedule: r.CustomSchedule,
	}
	for _, p := range r.Phases {
		cfg.Phases = append(cfg.Phases, schedule.PhaseSpec{Name: p.Name, Days: p.Days, Weight: p.Weight})
	}
	return cfg, nil
}

// PhaseDuration is a phase as currently shown to the user.
type PhaseDuration struct {
	Name string `json:"name" validate:"max=120"`
	Days int    `json:"days" validate:"gte=0,lte=36500"`
}

// EditPhaseRequest changes one phase of an existing breakdown. The current phases
// replace any phases in the configuration.
type EditPhaseRequest struct {
	Configuration ComputeRequest  `json:"configuration"`
	Phases        []PhaseDuration `json:"phases" validate:"required,min=1,max=100,dive"`
	Index         int             `json:"index" validate:"gte=0,lte=99"`
	Days          int             `json:"days" validate:"gte=0,lte=36500"`
}

// ConfigurationWithPhases returns the engine configuration with the current phases as explicit days.
func (r EditPhaseRequest) ConfigurationWithPhases() (schedule.Configuration, error) {
	cfg, err := r.Configuration.Configuration()
	if err != nil {
		return cfg, err
	}

	cfg.Phases = make([]schedule.PhaseSpec, len(r.Phases))
	for i, p := range r.Phases {
		cfg.Phases[i] = schedule.PhaseSpec{Name: p.Name, Days: p.Days}
	}
	return cfg, nil
}

// CalendarQuery selects a month of the classified calendar.
type CalendarQuery struct {
	Year  int `form:"year" validate:"required,gte=1900,lte=2200"`
	Month int `form:"month" validate:"required,gte=1,lte=12"`
}

// HolidaysQuery selects a year of holidays.
type HolidaysQuery struct {
	Year int `form:"year" validate:"required,gte=1900,lte=2200"`
}
