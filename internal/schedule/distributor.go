package schedule

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/username/schedule-engine/pkg/dateutil"
	apperrors "github.com/username/schedule-engine/pkg/errors"
)

// PhaseSpec is a requested phase: either an explicit day count or a proportional weight
type PhaseSpec struct {
	Name   string  `json:"name"`
	Days   int     `json:"days,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

// Phase is a named, contiguous slice of the project timeline
type Phase struct {
	Name         string    `json:"name"`
	DurationDays int       `json:"duration_days"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// ResolveDurations turns specs into day counts.
//
// Explicit days are taken as given. Phases with only a weight share what is left of total
// (largest-remainder rounding, earlier phases win ties). With no weighted phase, the total
// is the sum of the explicit days and the total argument is ignored.
// The resolved total never exceeds maxTotal.
func ResolveDurations(specs []PhaseSpec, total, maxTotal int) ([]int, int, error) {
	durations := make([]int, len(specs))
	explicit := 0
	var weighted []int
	weightSum := 0.0

	for i, s := range specs {
		switch {
		case s.Days < 0:
			return nil, 0, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "phase %d (%s): negative duration %d", i+1, s.Name, s.Days)
		case s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0):
			return nil, 0, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "phase %d (%s): invalid weight %v", i+1, s.Name, s.Weight)
		case s.Days > 0 && s.Weight > 0:
			return nil, 0, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "phase %d (%s): set either days or weight, not both", i+1, s.Name)
		}

		if s.Weight > 0 {
			weighted = append(weighted, i)
			weightSum += s.Weight
			continue
		}
		// compared before adding so the running sum cannot overflow
		if s.Days > maxTotal-explicit {
			return nil, 0, exceedsMax(maxTotal)
		}
		durations[i] = s.Days
		explicit += s.Days
	}

	if len(weighted) == 0 {
		return durations, explicit, nil
	}
	if total > maxTotal {
		return nil, 0, exceedsMax(maxTotal)
	}

	remainder := total - explicit
	if remainder < 0 {
		return nil, 0, apperrors.Clonef(apperrors.ErrInvalidConfiguration,
			"explicit phase days (%d) exceed the total duration (%d)", explicit, total)
	}

	type share struct {
		index int
		frac  float64
	}
	shares := make([]share, 0, len(weighted))
	assigned := 0
	for _, i := range weighted {
		quota := float64(remainder) * specs[i].Weight / weightSum
		whole := int(math.Floor(quota))
		durations[i] = whole
		assigned += whole
		shares = append(shares, share{index: i, frac: quota - float64(whole)})
	}

	sort.SliceStable(shares, func(a, b int) bool { return shares[a].frac > shares[b].frac })
	for k := 0; k < remainder-assigned; k++ {
		durations[shares[k%len(shares)].index]++
	}

	return durations, total, nil
}

func exceedsMax(maxTotal int) error {
	return apperrors.Clonef(apperrors.ErrInvalidConfiguration,
		"total duration exceeds the maximum of %d days", maxTotal)
}

// Distributor lays phases end to end on the timeline
type Distributor struct {
	advancer *Advancer
	maxTotal int
}

// NewDistributor creates a distributor that counts days with the given advancer.
// Schedules longer than maxTotal days are rejected.
func NewDistributor(advancer *Advancer, maxTotal int) *Distributor {
	return &Distributor{advancer: advancer, maxTotal: maxTotal}
}

// Distribute resolves the specs against total and dates every phase from start.
// It returns the phases and the resulting total duration.
func (d *Distributor) Distribute(start time.Time, specs []PhaseSpec, total int, policy Policy) ([]Phase, int, error) {
	durations, total, err := ResolveDurations(specs, total, d.maxTotal)
	if err != nil {
		return nil, 0, err
	}

	phases := make([]Phase, len(specs))
	for i, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = fmt.Sprintf("Fase %d", i+1)
		}
		phases[i] = Phase{Name: name, DurationDays: durations[i]}
	}

	if err := d.Reflow(start, phases, 0, policy); err != nil {
		return nil, 0, err
	}
	return phases, total, nil
}

// EditPhase returns a copy of phases where phase index lasts days, with that phase and
// every later one re-dated. Earlier phases are left untouched.
func (d *Distributor) EditPhase(start time.Time, phases []Phase, index, days int, policy Policy) ([]Phase, error) {
	if index < 0 || index >= len(phases) {
		return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "phase index %d out of range (0..%d)", index, len(phases)-1)
	}
	if days < 0 {
		return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "phase %q: negative duration %d", phases[index].Name, days)
	}

	edited := append([]Phase(nil), phases...)
	edited[index].DurationDays = days

	sum := 0
	for _, p := range edited {
		if p.DurationDays < 0 {
			return nil, apperrors.Clonef(apperrors.ErrInvalidConfiguration, "phase %q: negative duration %d", p.Name, p.DurationDays)
		}
		if p.DurationDays > d.maxTotal-sum {
			return nil, exceedsMax(d.maxTotal)
		}
		sum += p.DurationDays
	}

	if err := d.Reflow(start, edited, index, policy); err != nil {
		return nil, err
	}
	return edited, nil
}

// Reflow recomputes start and end dates of phases[from:] in place.
// Phase 0 starts on start; every other phase starts on the previous phase's end.
func (d *Distributor) Reflow(start time.Time, phases []Phase, from int, policy Policy) error {
	start = dateutil.ToDate(start)

	// cursor is the last date already consumed by counting
	cursor := start
	if policy == PolicyBusiness {
		cursor = dateutil.PrevDay(start)
	}
	for i := 0; i < from; i++ {
		if phases[i].DurationDays > 0 {
			cursor = phases[i].End
		}
	}

	for i := from; i < len(phases); i++ {
		phaseStart := start
		if i > 0 {
			phaseStart = phases[i-1].End
		}
		phases[i].Start = phaseStart

		if phases[i].DurationDays == 0 {
			phases[i].End = phaseStart
			continue
		}

		end, err := d.advancer.Continue(cursor, phases[i].DurationDays, policy)
		if err != nil {
			return fmt.Errorf("phase %q: %w", phases[i].Name, err)
		}
		phases[i].End = end
		cursor = end
	}

	return nil
}

// TotalDays sums phase durations
func TotalDays(phases []Phase) int {
	total := 0
	for _, p := range phases {
		total += p.DurationDays
	}
	return total
}
