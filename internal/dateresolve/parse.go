package dateresolve

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts covers the spellings camera metadata actually uses: the
// EXIF colon-separated form and ISO 8601, each with and without a zone
// offset. Fractional seconds are accepted by any of them.
var timestampLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a metadata timestamp value. Values without a zone
// offset are interpreted in the local timezone, matching how cameras record
// wall-clock time.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		var when time.Time
		var err error
		if strings.Contains(layout, "Z07") {
			when, err = time.Parse(layout, value)
		} else {
			when, err = time.ParseInLocation(layout, value, time.Local)
		}
		if err != nil {
			continue
		}
		if when.Year() < 1900 || when.Year() > 3000 {
			return time.Time{}, fmt.Errorf("timestamp year out of range: %q", value)
		}
		return when, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
