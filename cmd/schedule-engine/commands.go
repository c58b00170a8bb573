package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/username/schedule-engine/internal/api"
	"github.com/username/schedule-engine/internal/calendar"
	"github.com/username/schedule-engine/internal/schedule"
	"github.com/username/schedule-engine/internal/server"
	"github.com/username/schedule-engine/pkg/dateutil"
	"go.uber.org/zap"
)

func computeCmd() *cobra.Command {
	var (
		startStr   string
		months     float64
		business   bool
		templateID string
		custom     string
		phaseFlags []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute end date, phases and total hours of a project",
		Example: `  schedule-engine compute --start 2025-03-10 --months 4 --template construccion
  schedule-engine compute --start 2025-03-10 --business --phase Diseño=10 --phase Obra=60% --phase Entrega=40% --months 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := dateutil.Today()
			if startStr != "" {
				parsed, err := dateutil.ParseDate(startStr)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
				start = parsed
			}
			if templateID == "" {
				templateID = appConfig.Schedule.DefaultTemplate
			}

			phases := make([]schedule.PhaseSpec, 0, len(phaseFlags))
			for _, f := range phaseFlags {
				p, err := parsePhaseFlag(f)
				if err != nil {
					return err
				}
				phases = append(phases, p)
			}

			engine, err := initializeEngine(appConfig)
			if err != nil {
				return err
			}

			result, err := engine.Compute(schedule.Configuration{
				StartDate:      start,
				DurationMonths: months,
				BusinessDays:   business,
				TemplateID:     templateID,
				CustomSchedule: custom,
				Phases:         phases,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "Start date (YYYY-MM-DD, DD/MM/YYYY); default today")
	cmd.Flags().Float64VarP(&months, "months", "m", 0, "Duration in months")
	cmd.Flags().BoolVarP(&business, "business", "b", false, "Count business days only")
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Work schedule template id (see 'templates'), or 'custom'")
	cmd.Flags().StringVar(&custom, "custom", "", "Free-form work hours for the custom template, e.g. \"8:00-13:00, 14:00-17:00\"")
	cmd.Flags().StringArrayVarP(&phaseFlags, "phase", "p", nil, "Phase as name=days or name=weight% (repeatable, in order)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func calendarCmd() *cobra.Command {
	var (
		year   int
		month  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show workdays, weekends and holidays of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			today := dateutil.Today()
			if year == 0 {
				year = today.Year()
			}
			if month == 0 {
				month = int(today.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid --month %d", month)
			}

			engine, err := initializeEngine(appConfig)
			if err != nil {
				return err
			}

			info := engine.Classifier().MonthInfo(year, time.Month(month))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			printMonth(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default current)")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "Month 1-12 (default current)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List work schedule templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := initializeEngine(appConfig)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, t := range engine.Templates().List() {
				fmt.Fprintf(w, "%-16s %-28s %-26s %5.2fh/day\n", t.ID, t.Label, t.Description, t.HoursPerDay)
			}
			fmt.Fprintf(w, "%-16s %s\n", "custom", "free-form hours via --custom")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = appConfig.Server.Addr
			}
			gin.SetMode(appConfig.Server.Mode)

			engine, err := initializeEngine(appConfig)
			if err != nil {
				return err
			}

			metrics := api.NewMetrics()
			handler := api.NewHandler(engine, validator.New(), metrics, logger)
			router := api.NewRouter(handler, metrics, logger)

			srv := server.NewServer(addr, router, appConfig.Server.GetShutdownTimeout(), logger)
			handler.WithStatus(srv.GetStatus)
			logger.Info("Starting HTTP API",
				zap.String("addr", addr),
				zap.String("mode", appConfig.Server.Mode))
			return srv.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config server.addr)")

	return cmd
}

// parsePhaseFlag parses "name=days" or "name=weight%"
func parsePhaseFlag(value string) (schedule.PhaseSpec, error) {
	idx := strings.LastIndex(value, "=")
	if idx < 0 {
		return schedule.PhaseSpec{}, fmt.Errorf("invalid --phase %q: expected name=days or name=weight%%", value)
	}
	name := strings.TrimSpace(value[:idx])
	amount := strings.TrimSpace(value[idx+1:])

	if strings.HasSuffix(amount, "%") {
		weight, err := strconv.ParseFloat(strings.TrimSuffix(amount, "%"), 64)
		if err != nil || weight <= 0 {
			return schedule.PhaseSpec{}, fmt.Errorf("invalid --phase %q: weight must be a positive number", value)
		}
		return schedule.PhaseSpec{Name: name, Weight: weight}, nil
	}

	days, err := strconv.Atoi(amount)
	if err != nil || days < 0 {
		return schedule.PhaseSpec{}, fmt.Errorf("invalid --phase %q: days must be a non-negative integer", value)
	}
	return schedule.PhaseSpec{Name: name, Days: days}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// icon returns the glyph only when w is an interactive terminal
func icon(w io.Writer, glyph string) string {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return glyph + " "
	}
	return ""
}

func printResult(w io.Writer, r *schedule.Result) {
	fmt.Fprintf(w, "%s%s → %s (%s days)\n", icon(w, "📅"), dateutil.Format(r.StartDate), dateutil.Format(r.EndDate), r.Policy)
	if r.StartNormalized {
		fmt.Fprintf(w, "   %sStart is not a workday, counting from %s\n", icon(w, "⚠️"), dateutil.Format(r.EffectiveStart))
	}
	fmt.Fprintf(w, "   • Duration: %d days, %d workdays in range\n", r.TotalDays, r.WorkdayCount)

	approx := ""
	if r.HoursApproximate {
		approx = " (approximate)"
	}
	fmt.Fprintf(w, "   • Hours: %.2fh at %.2fh/day, %s%s\n", r.TotalHours, r.HoursPerDay, r.Template.Label, approx)

	if len(r.Phases) == 0 {
		return
	}
	fmt.Fprintln(w, "Phases:")
	for i, p := range r.Phases {
		fmt.Fprintf(w, "   %d. %-24s %4d d  %s .. %s\n", i+1, p.Name, p.DurationDays, dateutil.Format(p.Start), dateutil.Format(p.End))
	}
}

func printMonth(w io.Writer, info *calendar.MonthInfo) {
	fmt.Fprintf(w, "%s%s %d: %d workdays, %d weekend days, %d holidays\n",
		icon(w, "🗓"), info.Month, info.Year, info.WorkDays, info.Weekends, info.Holidays)
	for _, d := range info.Days {
		if d.Type == calendar.DayTypeWorkday {
			continue
		}
		line := fmt.Sprintf("   %s %-9s %s", dateutil.Format(d.Date), d.Date.Weekday(), d.Type)
		if d.Note != "" {
			line += "  " + d.Note
		}
		fmt.Fprintln(w, line)
	}
}
