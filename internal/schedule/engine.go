package schedule

import (
	"math"
	"time"

	"github.com/username/schedule-engine/internal/calendar"
	"github.com/username/schedule-engine/internal/worktime"
	"github.com/username/schedule-engine/pkg/dateutil"
	apperrors "github.com/username/schedule-engine/pkg/errors"
	"go.uber.org/zap"
)

// Configuration is the read-only input of a schedule computation
type Configuration struct {
	StartDate      time.Time   `json:"start_date"`
	DurationMonths float64     `json:"duration_months"`
	BusinessDays   bool        `json:"business_days"`
	TemplateID     string      `json:"template_id"`
	CustomSchedule string      `json:"custom_schedule,omitempty"`
	Phases         []PhaseSpec `json:"phases,omitempty"`
}

// Policy returns the day-count policy selected by the configuration
func (c Configuration) Policy() Policy {
	return PolicyFor(c.BusinessDays)
}

// Result is the computed project calendar.
//
// EffectiveStart is the first counted day: the next workday when a business-day
// schedule starts on a weekend or holiday.
type Result struct {
	StartDate        time.Time          `json:"start_date"`
	EffectiveStart   time.Time          `json:"effective_start"`
	StartNormalized  bool               `json:"start_normalized"`
	EndDate          time.Time          `json:"end_date"`
	TotalDays        int                `json:"total_days"`
	TotalHours       float64            `json:"total_hours"`
	HoursPerDay      float64            `json:"hours_per_day"`
	HoursApproximate bool               `json:"hours_approximate"`
	WorkdayCount     int                `json:"workday_count"`
	Policy           Policy             `json:"policy"`
	Template         worktime.Template  `json:"template"`
	Phases           []Phase            `json:"phases"`
	Days             []calendar.DayInfo `json:"days"`
}

// Engine computes project schedules. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	classifier  *calendar.Classifier
	templates   *worktime.Registry
	conversion  MonthConversion
	maxTotal    int
	advancer    *Advancer
	distributor *Distributor
	logger      *zap.Logger
}

// NewEngine creates a new schedule engine. maxTotalDays caps every schedule; values
// outside 1..MaxTotalDaysCeiling fall back to DefaultMaxTotalDays.
func NewEngine(
	classifier *calendar.Classifier,
	templates *worktime.Registry,
	conversion MonthConversion,
	maxTotalDays int,
	logger *zap.Logger,
) *Engine {
	if maxTotalDays <= 0 || maxTotalDays > MaxTotalDaysCeiling {
		maxTotalDays = DefaultMaxTotalDays
	}
	advancer := NewAdvancer(classifier)
	return &Engine{
		classifier:  classifier,
		templates:   templates,
		conversion:  conversion,
		maxTotal:    maxTotalDays,
		advancer:    advancer,
		distributor: NewDistributor(advancer, maxTotalDays),
		logger:      logger,
	}
}

// Classifier returns the day classifier used by the engine
func (e *Engine) Classifier() *calendar.Classifier {
	return e.classifier
}

// Templates returns the work schedule registry used by the engine
func (e *Engine) Templates() *worktime.Registry {
	return e.templates
}

// Conversion returns the month-to-days constants
func (e *Engine) Conversion() MonthConversion {
	return e.conversion
}

// MaxTotalDays returns the longest schedule the engine accepts
func (e *Engine) MaxTotalDays() int {
	return e.maxTotal
}

// Advancer returns the engine's day advancer
func (e *Engine) Advancer() *Advancer {
	return e.advancer
}

// Compute turns a configuration into a schedule. Identical input yields identical output.
func (e *Engine) Compute(cfg Configuration) (*Result, error) {
	if cfg.StartDate.IsZero() {
		return nil, apperrors.Clone(apperrors.ErrInvalidConfiguration, "start date is required")
	}
	start := dateutil.ToDate(cfg.StartDate)
	policy := cfg.Policy()

	template, err := e.resolveTemplate(cfg)
	if err != nil {
		return nil, err
	}

	total, err := e.totalDays(cfg, policy)
	if err != nil {
		return nil, err
	}

	var phases []Phase
	if len(cfg.Phases) > 0 {
		phases, total, err = e.distributor.Distribute(start, cfg.Phases, total, policy)
		if err != nil {
			return nil, err
		}
	}
	if total <= 0 {
		return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "total duration must be positive, got %d days", total)
	}

	result, err := e.assemble(start, total, policy, template, phases)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Schedule computed",
		zap.String("start", dateutil.Format(result.StartDate)),
		zap.String("end", dateutil.Format(result.EndDate)),
		zap.Int("total_days", result.TotalDays),
		zap.Float64("total_hours", result.TotalHours),
		zap.Stringer("policy", policy),
		zap.Int("phases", len(result.Phases)))

	return result, nil
}

// EditPhase changes the duration of one phase of a computed schedule and re-dates that
// phase and every phase after it with the configuration's policy. End date and totals
// follow the new phase sum.
func (e *Engine) EditPhase(cfg Configuration, previous *Result, index, days int) (*Result, error) {
	if previous == nil || len(previous.Phases) == 0 {
		return nil, apperrors.Clone(apperrors.ErrInvalidConfiguration, "schedule has no phases to edit")
	}
	if cfg.StartDate.IsZero() {
		return nil, apperrors.Clone(apperrors.ErrInvalidConfiguration, "start date is required")
	}
	start := dateutil.ToDate(cfg.StartDate)
	policy := cfg.Policy()

	template, err := e.resolveTemplate(cfg)
	if err != nil {
		return nil, err
	}

	phases, err := e.distributor.EditPhase(start, previous.Phases, index, days, policy)
	if err != nil {
		return nil, err
	}

	total := TotalDays(phases)
	if total <= 0 {
		return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "total duration must be positive, got %d days", total)
	}

	e.logger.Debug("Phase edited",
		zap.Int("index", index),
		zap.String("phase", phases[index].Name),
		zap.Int("from_days", previous.Phases[index].DurationDays),
		zap.Int("to_days", days),
		zap.Stringer("policy", policy))

	return e.assemble(start, total, policy, template, phases)
}

func (e *Engine) resolveTemplate(cfg Configuration) (worktime.Template, error) {
	if cfg.TemplateID == "" {
		return worktime.Template{}, apperrors.Clone(apperrors.ErrInvalidConfiguration, "work schedule template is required")
	}

	template, err := e.templates.Resolve(cfg.TemplateID, cfg.CustomSchedule)
	if err != nil {
		return worktime.Template{}, err
	}
	if template.Approximate {
		e.logger.Info("Custom schedule not understood, using default hours per day",
			zap.String("schedule", cfg.CustomSchedule),
			zap.Float64("hours_per_day", template.HoursPerDay))
	}
	return template, nil
}

// totalDays converts the requested months, unless explicit phase days define the total
func (e *Engine) totalDays(cfg Configuration, policy Policy) (int, error) {
	if len(cfg.Phases) > 0 && !hasWeights(cfg.Phases) {
		return 0, nil
	}

	months := cfg.DurationMonths
	if months <= 0 || math.IsNaN(months) || math.IsInf(months, 0) {
		return 0, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "duration must be a positive number of months, got %v", months)
	}
	if math.Round(months*float64(e.conversion.PerMonth(policy))) > float64(e.maxTotal) {
		return 0, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
			"duration of %v months exceeds the maximum of %d days", months, e.maxTotal)
	}
	return e.conversion.Days(months, policy), nil
}

func hasWeights(specs []PhaseSpec) bool {
	for _, s := range specs {
		if s.Weight > 0 {
			return true
		}
	}
	return false
}

func (e *Engine) assemble(start time.Time, total int, policy Policy, template worktime.Template, phases []Phase) (*Result, error) {
	end, err := e.advancer.Advance(start, total, policy)
	if err != nil {
		return nil, err
	}
	effective, normalized, err := e.advancer.Normalize(start, policy)
	if err != nil {
		return nil, err
	}

	days := e.classifier.Range(start, end)
	workdays := 0
	for _, d := range days {
		if d.IsWorkday() {
			workdays++
		}
	}

	if phases == nil {
		phases = []Phase{}
	}

	return &Result{
		StartDate:        start,
		EffectiveStart:   effective,
		StartNormalized:  normalized,
		EndDate:          end,
		TotalDays:        total,
		TotalHours:       math.Round(float64(total)*template.HoursPerDay*100) / 100,
		HoursPerDay:      template.HoursPerDay,
		HoursApproximate: template.Approximate,
		WorkdayCount:     workdays,
		Policy:           policy,
		Template:         template,
		Phases:           phases,
		Days:             days,
	}, nil
}
