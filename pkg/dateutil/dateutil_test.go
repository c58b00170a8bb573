package dateutil

import (
	"testing"
	"time"
)

func TestToDate(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.FixedZone("CLT", -3*3600))
	expected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	result := ToDate(input)

	if !result.Equal(expected) {
		t.Errorf("ToDate(%v) = %v, want %v", input, result, expected)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		days     int
		expected time.Time
	}{
		{"zero days", Date(2025, 1, 15), 0, Date(2025, 1, 15)},
		{"across month end", Date(2025, 1, 30), 3, Date(2025, 2, 2)},
		{"leap day", Date(2024, 2, 28), 1, Date(2024, 2, 29)},
		{"backwards", Date(2025, 3, 1), -1, Date(2025, 2, 28)},
		{"across year", Date(2025, 12, 31), 1, Date(2026, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AddDays(tt.input, tt.days)

			if !result.Equal(tt.expected) {
				t.Errorf("AddDays(%v, %d) = %v, want %v",
					Format(tt.input), tt.days, Format(result), Format(tt.expected))
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same day", Date(2025, 1, 15), Date(2025, 1, 15), 0},
		{"one week", Date(2025, 1, 13), Date(2025, 1, 20), 7},
		{"reversed", Date(2025, 1, 20), Date(2025, 1, 13), -7},
		{"leap year span", Date(2024, 1, 1), Date(2025, 1, 1), 366},
		{"four centuries", Date(1700, 1, 1), Date(2100, 1, 1), 146097},
		{"ten thousand years", Date(2025, 3, 10), Date(12025, 3, 10), 3652425},
		{"time of day ignored", time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC), Date(2025, 1, 16), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", Format(tt.a), Format(tt.b), got, tt.want)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(2024, time.February); got != 29 {
		t.Errorf("DaysInMonth(2024, Feb) = %d, want 29", got)
	}
	if got := DaysInMonth(2025, time.February); got != 28 {
		t.Errorf("DaysInMonth(2025, Feb) = %d, want 28", got)
	}
	if got := DaysInMonth(2025, time.December); got != 31 {
		t.Errorf("DaysInMonth(2025, Dec) = %d, want 31", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"ISO format YYYY-MM-DD", "2025-01-15", Date(2025, 1, 15), false},
		{"Latin format DD/MM/YYYY", "15/01/2025", Date(2025, 1, 15), false},
		{"Dotted format DD.MM.YYYY", "15.01.2025", Date(2025, 1, 15), false},
		{"ISO with time drops time", "2025-01-15T10:30:00", Date(2025, 1, 15), false},
		{"surrounding spaces", "  2025-01-15 ", Date(2025, 1, 15), false},
		{"garbage", "next tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDate(%v) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"saturday", time.Saturday, false},
		{"Domingo", time.Sunday, false},
		{"viernes", time.Friday, false},
		{"someday", time.Sunday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
