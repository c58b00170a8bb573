package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/schedule-engine/pkg/dateutil"
	apperrors "github.com/username/schedule-engine/pkg/errors"
	"go.uber.org/zap"
)

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2019, dateutil.Date(2019, time.April, 21)},
		{2024, dateutil.Date(2024, time.March, 31)},
		{2025, dateutil.Date(2025, time.April, 20)},
		{2026, dateutil.Date(2026, time.April, 5)},
	}

	for _, tt := range tests {
		if got := EasterSunday(tt.year); !got.Equal(tt.want) {
			t.Errorf("EasterSunday(%d) = %s, want %s", tt.year, dateutil.Format(got), dateutil.Format(tt.want))
		}
	}
}

func TestDefaultTable_Lookup(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		date     time.Time
		want     bool
		wantName string
	}{
		{"new year recurs", dateutil.Date(2031, time.January, 1), true, "Año Nuevo"},
		{"labour day", dateutil.Date(2025, time.May, 1), true, "Día Nacional del Trabajo"},
		{"good friday 2025", dateutil.Date(2025, time.April, 18), true, "Viernes Santo"},
		{"good friday 2024", dateutil.Date(2024, time.March, 29), true, "Viernes Santo"},
		{"dated one-off", dateutil.Date(2025, time.June, 20), true, "Día Nacional de los Pueblos Indígenas"},
		{"one-off does not recur", dateutil.Date(2027, time.June, 20), false, ""},
		{"ordinary day", dateutil.Date(2025, time.March, 12), false, ""},
		{"time of day ignored", time.Date(2025, time.December, 25, 18, 30, 0, 0, time.UTC), true, "Navidad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := table.Lookup(tt.date)
			if ok != tt.want {
				t.Fatalf("Lookup(%s) ok = %v, want %v", dateutil.Format(tt.date), ok, tt.want)
			}
			if h.Name != tt.wantName {
				t.Errorf("Lookup(%s) name = %q, want %q", dateutil.Format(tt.date), h.Name, tt.wantName)
			}
			if table.IsHoliday(tt.date) != tt.want {
				t.Errorf("IsHoliday(%s) disagrees with Lookup", dateutil.Format(tt.date))
			}
		})
	}
}

func TestNewTable_RejectsDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		fixed   []FixedHoliday
		movable []EasterHoliday
		dated   []DatedHoliday
	}{
		{
			name:  "duplicate recurring",
			fixed: []FixedHoliday{{time.May, 1, "a"}, {time.May, 1, "b"}},
		},
		{
			name:  "duplicate dated",
			dated: []DatedHoliday{{dateutil.Date(2025, 3, 3), "a"}, {dateutil.Date(2025, 3, 3), "b"}},
		},
		{
			name:  "dated on recurring date",
			fixed: []FixedHoliday{{time.May, 1, "a"}},
			dated: []DatedHoliday{{dateutil.Date(2025, 5, 1), "b"}},
		},
		{
			name:    "duplicate Easter offset",
			movable: []EasterHoliday{{-2, "a"}, {-2, "b"}},
		},
		{
			name:  "impossible date",
			fixed: []FixedHoliday{{time.February, 30, "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable("test", tt.fixed, tt.movable, tt.dated)
			if err == nil {
				t.Fatal("NewTable() expected error, got nil")
			}
			if !errors.Is(err, apperrors.ErrInvalidConfiguration) {
				t.Errorf("NewTable() error = %v, want InvalidConfiguration", err)
			}
		})
	}
}

func TestClassifier_HolidaysInYear(t *testing.T) {
	holidays := NewClassifier(DefaultTable()).HolidaysInYear(2025)

	// 13 recurring + 2 Easter-relative + 3 dated in 2025
	if len(holidays) != 18 {
		t.Fatalf("HolidaysInYear(2025) = %d holidays, want 18", len(holidays))
	}
	for i := 1; i < len(holidays); i++ {
		if !holidays[i-1].Date.Before(holidays[i].Date) {
			t.Errorf("holidays not in date order at %d: %s then %s", i,
				dateutil.Format(holidays[i-1].Date), dateutil.Format(holidays[i].Date))
		}
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(DefaultTable())

	tests := []struct {
		name string
		date time.Time
		want DayType
	}{
		{"plain monday", dateutil.Date(2025, 3, 10), DayTypeWorkday},
		{"saturday", dateutil.Date(2025, 3, 15), DayTypeWeekend},
		{"sunday", dateutil.Date(2025, 3, 16), DayTypeWeekend},
		{"weekday holiday", dateutil.Date(2025, 5, 1), DayTypeHoliday},
		// 2025-11-16 is a Sunday election holiday
		{"weekend holiday reported as weekend", dateutil.Date(2025, 11, 16), DayTypeWeekend},
		{"holy saturday reported as weekend", dateutil.Date(2025, 4, 19), DayTypeWeekend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.date)
			if got != tt.want {
				t.Errorf("Classify(%s) = %v, want %v", tt.date.Format("2006-01-02 Mon"), got, tt.want)
			}
			if c.IsWorkday(tt.date) != (tt.want == DayTypeWorkday) {
				t.Errorf("IsWorkday(%s) disagrees with Classify", dateutil.Format(tt.date))
			}
		})
	}
}

func TestClassifier_WeekendAlwaysWins(t *testing.T) {
	c := NewClassifier(DefaultTable())

	day := dateutil.Date(2020, 1, 1)
	for i := 0; i < 3*366; i++ {
		info := c.Day(day)
		if wd := day.Weekday(); (wd == time.Saturday || wd == time.Sunday) && info.Type != DayTypeWeekend {
			t.Fatalf("%s classified %v, want weekend", day.Format("2006-01-02 Mon"), info.Type)
		}
		if info.Type != DayTypeWorkday && info.Type != DayTypeWeekend && info.Type != DayTypeHoliday {
			t.Fatalf("%s has unknown type %v", dateutil.Format(day), info.Type)
		}
		day = dateutil.NextDay(day)
	}
}

func TestClassifier_CustomWeekend(t *testing.T) {
	c := NewClassifier(EmptyTable(), time.Friday, time.Saturday)

	if got := c.Classify(dateutil.Date(2025, 3, 14)); got != DayTypeWeekend {
		t.Errorf("Friday = %v, want weekend", got)
	}
	if got := c.Classify(dateutil.Date(2025, 3, 16)); got != DayTypeWorkday {
		t.Errorf("Sunday = %v, want workday", got)
	}
	if wd := c.WeekendDays(); len(wd) != 2 || wd[0] != time.Friday || wd[1] != time.Saturday {
		t.Errorf("WeekendDays() = %v, want [Friday Saturday]", wd)
	}
	if got := c.WorkdaysPerWeek(); got != 5 {
		t.Errorf("WorkdaysPerWeek() = %d, want 5", got)
	}
}

func TestDefaultWeekendIsACopy(t *testing.T) {
	weekend := DefaultWeekend()
	weekend[0] = time.Monday

	c := NewClassifier(EmptyTable())
	if got := c.Classify(dateutil.Date(2025, 3, 10)); got != DayTypeWorkday {
		t.Errorf("Monday = %v after changing a returned weekend, want workday", got)
	}
	if got := c.Classify(dateutil.Date(2025, 3, 15)); got != DayTypeWeekend {
		t.Errorf("Saturday = %v, want weekend", got)
	}
}

func TestClassifier_MonthInfo(t *testing.T) {
	c := NewClassifier(DefaultTable())

	// April 2025: 30 days, 8 weekend days, Good Friday on the 18th
	monthInfo := c.MonthInfo(2025, time.April)

	if len(monthInfo.Days) != 30 {
		t.Errorf("Days count = %d, want 30", len(monthInfo.Days))
	}
	if monthInfo.Weekends != 8 {
		t.Errorf("Weekends = %d, want 8", monthInfo.Weekends)
	}
	if monthInfo.Holidays != 1 {
		t.Errorf("Holidays = %d, want 1", monthInfo.Holidays)
	}
	if monthInfo.WorkDays != 21 {
		t.Errorf("WorkDays = %d, want 21", monthInfo.WorkDays)
	}
	if note := monthInfo.Days[17].Note; note != "Viernes Santo" {
		t.Errorf("Apr 18 note = %q, want Viernes Santo", note)
	}
}

func TestClassifier_RangeEmptyWhenReversed(t *testing.T) {
	c := NewClassifier(nil)

	if days := c.Range(dateutil.Date(2025, 3, 10), dateutil.Date(2025, 3, 9)); len(days) != 0 {
		t.Errorf("Range() = %d days, want 0", len(days))
	}
	if days := c.Range(dateutil.Date(2025, 3, 10), dateutil.Date(2025, 3, 10)); len(days) != 1 {
		t.Errorf("Range() = %d days, want 1", len(days))
	}
}

func TestFileCalendar_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.txt")
	content := `# company holidays
2025-09-17 Puente Fiestas Patrias
12-24 Nochebuena

not-a-date broken line
12-24 duplicate
2025-12-24 shadowed by recurring
2025-10-31	Reforma Protestante
05-02	 	Día del Taller
2025-08-14
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	fc := NewFileCalendar(path, zap.NewNop())
	if fc.IsHoliday(dateutil.Date(2025, 9, 17)) {
		t.Error("IsHoliday() before Load = true, want false")
	}

	if err := fc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if h, ok := fc.Lookup(dateutil.Date(2025, 9, 17)); !ok || h.Name != "Puente Fiestas Patrias" {
		t.Errorf("Lookup(2025-09-17) = %+v, %v", h, ok)
	}
	if h, ok := fc.Lookup(dateutil.Date(2030, 12, 24)); !ok || h.Name != "Nochebuena" {
		t.Errorf("Lookup(2030-12-24) = %+v, %v", h, ok)
	}
	if fc.IsHoliday(dateutil.Date(2026, 9, 17)) {
		t.Error("dated holiday must not recur")
	}
	if h, ok := fc.Lookup(dateutil.Date(2025, 10, 31)); !ok || h.Name != "Reforma Protestante" {
		t.Errorf("Lookup(2025-10-31) with tab separator = %+v, %v", h, ok)
	}
	if h, ok := fc.Lookup(dateutil.Date(2027, 5, 2)); !ok || h.Name != "Día del Taller" {
		t.Errorf("Lookup(2027-05-02) with tab separator = %+v, %v", h, ok)
	}
	if h, ok := fc.Lookup(dateutil.Date(2025, 8, 14)); !ok || h.Name != "" {
		t.Errorf("Lookup(2025-08-14) without note = %+v, %v", h, ok)
	}
}

func TestFileCalendar_LoadMissingFile(t *testing.T) {
	fc := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	if err := fc.Load(); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestCompositeCalendar(t *testing.T) {
	extra, err := NewTable("extra", []FixedHoliday{{time.March, 10, "Aniversario"}}, nil, nil)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	cc := NewCompositeCalendar(zap.NewNop(), DefaultTable(), nil, extra)

	if !cc.IsHoliday(dateutil.Date(2025, 3, 10)) {
		t.Error("composite should include the extra table")
	}
	if h, ok := cc.Lookup(dateutil.Date(2025, 12, 25)); !ok || h.Name != "Navidad" {
		t.Errorf("Lookup(2025-12-25) = %+v, %v", h, ok)
	}
	if cc.IsHoliday(dateutil.Date(2025, 3, 11)) {
		t.Error("2025-03-11 should not be a holiday")
	}
}

func TestClassifier_HolidaysInYearIncludesOverlayAndWeekends(t *testing.T) {
	// 2025-03-15 is a Saturday
	extra, err := NewTable("extra", nil, nil, []DatedHoliday{{Date: dateutil.Date(2025, 3, 15), Name: "Feria"}})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	c := NewClassifier(NewCompositeCalendar(zap.NewNop(), DefaultTable(), extra))

	holidays := c.HolidaysInYear(2025)
	if len(holidays) != 19 {
		t.Fatalf("HolidaysInYear(2025) = %d holidays, want 19", len(holidays))
	}

	found := false
	for _, h := range holidays {
		if h.Date.Equal(dateutil.Date(2025, 3, 15)) && h.Name == "Feria" {
			found = true
		}
	}
	if !found {
		t.Error("weekend overlay holiday missing from HolidaysInYear")
	}
	if got := c.Classify(dateutil.Date(2025, 3, 15)); got != DayTypeWeekend {
		t.Errorf("Classify(2025-03-15) = %v, want Weekend", got)
	}
}
