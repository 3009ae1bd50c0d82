package dateresolve

import (
	"regexp"
	"strconv"
	"time"
)

type dateKind int

const (
	kindYMD dateKind = iota
	kindMDY
	kindYMDHMS
)

type datePattern struct {
	re   *regexp.Regexp
	kind dateKind
}

// Filename date patterns, tried in order. The compact timestamp pattern sits
// after the separated forms so "2024-07-16" never parses as digit soup, while
// "IMG_20240716_182207" falls through the separated forms and lands here.
var datePatterns = []datePattern{
	{regexp.MustCompile(`(\d{4})[_-](\d{1,2})[_-](\d{1,2})`), kindYMD},
	{regexp.MustCompile(`(\d{1,2})[_/-](\d{1,2})[_/-](\d{4})`), kindMDY},
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})[_-](\d{2})(\d{2})(\d{2})`), kindYMDHMS},
	{regexp.MustCompile(`IMG[_-](\d{4})(\d{2})(\d{2})`), kindYMD},
	{regexp.MustCompile(`Screenshot[_-](\d{4})[_-](\d{1,2})[_-](\d{1,2})`), kindYMD},
}

// Time-of-day patterns applied to the filename remainder after a date-only
// match, so the date's own digits are never reinterpreted as a clock time.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})[:-](\d{1,2})[:-](\d{1,2})`),
	regexp.MustCompile(`(\d{2})(\d{2})(\d{2})`),
}

// FromFilename recovers a date embedded in a filename. The boolean is false
// when no pattern matches with a calendar-valid date.
func FromFilename(name string) (time.Time, Precision, bool) {
	for _, pattern := range datePatterns {
		match := pattern.re.FindStringSubmatchIndex(name)
		if match == nil {
			continue
		}
		groups := submatches(name, match)

		var year, month, day, hour, minute, second int
		switch pattern.kind {
		case kindMDY:
			month, day, year = atoi(groups[0]), atoi(groups[1]), atoi(groups[2])
		case kindYMDHMS:
			year, month, day = atoi(groups[0]), atoi(groups[1]), atoi(groups[2])
			hour, minute, second = atoi(groups[3]), atoi(groups[4]), atoi(groups[5])
		default:
			year, month, day = atoi(groups[0]), atoi(groups[1]), atoi(groups[2])
		}

		if !validDate(year, month, day) {
			continue
		}

		precision := PrecisionDay
		if pattern.kind == kindYMDHMS {
			if !validClock(hour, minute, second) {
				continue
			}
			precision = PrecisionSecond
		} else if h, m, s, ok := findClock(name[match[1]:]); ok {
			hour, minute, second = h, m, s
			precision = PrecisionSecond
		}

		when := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
		// time.Date normalizes out-of-range days (Feb 30 becomes Mar 1);
		// a shifted result means the digits were not a real date.
		if when.Day() != day || int(when.Month()) != month {
			continue
		}
		return when, precision, true
	}
	return time.Time{}, PrecisionDay, false
}

func findClock(remainder string) (hour, minute, second int, ok bool) {
	for _, pattern := range timePatterns {
		match := pattern.FindStringSubmatch(remainder)
		if match == nil {
			continue
		}
		hour, minute, second = atoi(match[1]), atoi(match[2]), atoi(match[3])
		if validClock(hour, minute, second) {
			return hour, minute, second, true
		}
	}
	return 0, 0, 0, false
}

func submatches(source string, indexes []int) []string {
	groups := make([]string, 0, len(indexes)/2-1)
	for i := 2; i < len(indexes); i += 2 {
		if indexes[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, source[indexes[i]:indexes[i+1]])
	}
	return groups
}

func atoi(s string) int {
	value, _ := strconv.Atoi(s)
	return value
}

func validDate(year, month, day int) bool {
	return year >= 1900 && year <= 3000 && month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func validClock(hour, minute, second int) bool {
	return hour >= 0 && hour < 24 && minute >= 0 && minute < 60 && second >= 0 && second < 60
}
