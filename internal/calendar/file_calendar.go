package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/username/schedule-engine/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar implements HolidayCalendar using a local text file of extra holidays
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	table    *Table
}

// NewFileCalendar creates a new FileCalendar instance. It holds no holidays until Load.
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		table:    EmptyTable(),
	}
}

// Load loads holiday data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holidays file: %w", err)
	}
	defer file.Close()

	var (
		fixed     []FixedHoliday
		dated     []DatedHoliday
		seenFixed = make(map[monthDay]bool)
		seenDated = make(map[time.Time]bool)
	)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD [note]  (one-off)
		//         MM-DD [note]       (every year)
		// Example: 2025-09-17 Feriado adicional Fiestas Patrias
		dateStr, note := line, ""
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			dateStr, note = line[:i], strings.TrimSpace(line[i+1:])
		}

		if date, err := time.Parse("2006-01-02", dateStr); err == nil {
			date = dateutil.ToDate(date)
			if seenDated[date] || seenFixed[monthDay{date.Month(), date.Day()}] {
				fc.logger.Warn("Duplicate holiday, skipping",
					zap.Int("line", lineNo),
					zap.String("date", dateStr))
				continue
			}
			seenDated[date] = true
			dated = append(dated, DatedHoliday{Date: date, Name: note})
			continue
		}

		md, err := time.Parse("01-02", dateStr)
		if err != nil {
			fc.logger.Warn("Failed to parse holiday date",
				zap.Int("line", lineNo),
				zap.String("date", dateStr),
				zap.Error(err))
			continue
		}
		key := monthDay{md.Month(), md.Day()}
		if seenFixed[key] {
			fc.logger.Warn("Duplicate holiday, skipping",
				zap.Int("line", lineNo),
				zap.String("date", dateStr))
			continue
		}
		seenFixed[key] = true
		fixed = append(fixed, FixedHoliday{Month: key.month, Day: key.day, Name: note})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holidays file: %w", err)
	}

	// a dated entry read before a recurring one on the same month-day is dropped here
	dated = dropShadowed(dated, seenFixed, fc.logger)

	table, err := NewTable("file:"+fc.filePath, fixed, nil, dated)
	if err != nil {
		return fmt.Errorf("invalid holidays file: %w", err)
	}
	fc.table = table

	fc.logger.Info("Holidays file loaded",
		zap.String("file", fc.filePath),
		zap.Int("recurring", len(fixed)),
		zap.Int("dated", len(dated)))

	return nil
}

func dropShadowed(dated []DatedHoliday, fixed map[monthDay]bool, logger *zap.Logger) []DatedHoliday {
	out := dated[:0]
	for _, h := range dated {
		if fixed[monthDay{h.Date.Month(), h.Date.Day()}] {
			logger.Warn("Dated holiday shadowed by recurring entry, skipping",
				zap.String("date", dateutil.Format(h.Date)))
			continue
		}
		out = append(out, h)
	}
	return out
}

// IsHoliday checks if the given date is listed in the file
func (fc *FileCalendar) IsHoliday(date time.Time) bool {
	return fc.table.IsHoliday(date)
}

// Lookup returns the holiday listed for date
func (fc *FileCalendar) Lookup(date time.Time) (Holiday, bool) {
	return fc.table.Lookup(date)
}
