package worktime

import (
	"regexp"
	"strconv"
	"strings"
)

const customLabel = "Horario personalizado"

// rangePattern matches "8:00-13:00", "8 a 13", "9am to 5pm", "08:00 hrs - 17:00 hrs", "8h-17h"
var rangePattern = regexp.MustCompile(
	`\b(\d{1,2})(?:[:.h](\d{2}))?\s*(am|pm|hrs|h)?\s*(?:-|a|to|hasta)\s*(\d{1,2})(?:[:.h](\d{2}))?\s*(am|pm|hrs|h)?`)

// datePattern matches calendar dates ("2024-06-20", "20/06/2024") that would otherwise read as ranges
var datePattern = regexp.MustCompile(`\b(?:\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}[-/.]\d{1,2}[-/.]\d{4})\b`)

type clockToken struct {
	hour, minute int
	suffix       string
}

func (t clockToken) clock() Clock {
	hour := t.hour
	switch t.suffix {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	}
	return At(hour, t.minute)
}

func (t clockToken) meridiem() bool {
	return t.suffix == "am" || t.suffix == "pm"
}

// ParseCustom extracts time ranges from a free-form schedule such as
// "8:00-13:00, 14:00-17:00" or "lunes a viernes de 9am a 6pm".
// When no consistent set of ranges is found the template falls back to
// DefaultHoursPerDay and is marked Approximate.
func ParseCustom(text string) Template {
	fallback := Template{
		ID:          CustomID,
		Label:       customLabel,
		Description: strings.TrimSpace(text),
		HoursPerDay: DefaultHoursPerDay,
		Approximate: true,
	}

	ranges, ok := parseRanges(text)
	if !ok || validateRanges(ranges) != nil {
		return fallback
	}

	return Template{
		ID:          CustomID,
		Label:       customLabel,
		Description: strings.TrimSpace(text),
		Ranges:      ranges,
		HoursPerDay: hoursOf(ranges),
	}
}

func parseRanges(text string) ([]TimeRange, bool) {
	normalized := strings.ToLower(text)
	normalized = strings.NewReplacer("–", "-", "—", "-", "a.m.", "am", "p.m.", "pm").Replace(normalized)
	normalized = datePattern.ReplaceAllString(normalized, " ")

	matches := rangePattern.FindAllStringSubmatch(normalized, -1)
	if len(matches) == 0 {
		return nil, false
	}

	ranges := make([]TimeRange, 0, len(matches))
	var prevEnd Clock
	for _, m := range matches {
		start, ok := parseToken(m[1], m[2], m[3])
		if !ok {
			return nil, false
		}
		end, ok := parseToken(m[4], m[5], m[6])
		if !ok {
			return nil, false
		}

		// "1-5pm" means 13:00-17:00
		if end.suffix == "pm" && !start.meridiem() && start.hour < 12 && start.clock()+At(12, 0) < end.clock() {
			start.hour += 12
		}

		r := TimeRange{Start: start.clock(), End: end.clock()}

		if !start.meridiem() && !end.meridiem() {
			// "8-5" reads as 08:00-17:00
			if r.End <= r.Start && r.End+At(12, 0) > r.Start && r.End+At(12, 0) <= At(24, 0) {
				r.End += At(12, 0)
			}
			// "9-1, 2-6" reads as 09:00-13:00, 14:00-18:00
			if len(ranges) > 0 && r.Start < prevEnd && r.End+At(12, 0) <= At(24, 0) {
				r.Start += At(12, 0)
				r.End += At(12, 0)
			}
		}

		ranges = append(ranges, r)
		prevEnd = r.End
	}

	return ranges, true
}

func parseToken(hourStr, minuteStr, suffix string) (clockToken, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return clockToken{}, false
	}
	minute := 0
	if minuteStr != "" {
		minute, err = strconv.Atoi(minuteStr)
		if err != nil {
			return clockToken{}, false
		}
	}
	if minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return clockToken{}, false
	}
	if (suffix == "am" || suffix == "pm") && (hour == 0 || hour > 12) {
		return clockToken{}, false
	}
	return clockToken{hour: hour, minute: minute, suffix: suffix}, true
}
