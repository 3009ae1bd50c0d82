package dateresolve

import (
	"time"

	"shuttersort/internal/mediameta"
)

// Precision describes how fine-grained a resolved date is.
type Precision int

const (
	// PrecisionDay means only the calendar date is known; the time of day
	// defaults to midnight.
	PrecisionDay Precision = iota
	// PrecisionSecond means the date carries a wall-clock time.
	PrecisionSecond
	// PrecisionSubsecond means a fractional second was recovered.
	PrecisionSubsecond
)

func (p Precision) String() string {
	switch p {
	case PrecisionSubsecond:
		return "subsecond"
	case PrecisionSecond:
		return "second"
	default:
		return "day"
	}
}

// Source identifies which fallback stage produced a resolved date.
type Source string

const (
	SourceMetadata   Source = "metadata"
	SourceFilename   Source = "filename"
	SourceFilesystem Source = "filesystem"
)

// ResolvedDate is the outcome of a successful resolution.
type ResolvedDate struct {
	Time      time.Time
	Precision Precision
	Source    Source
	// Field names the metadata field that produced the date, when
	// Source is SourceMetadata.
	Field string
}

// Inputs collects everything the fallback chain may consult for one file.
type Inputs struct {
	Metadata  mediameta.Record
	Filename  string
	BirthTime time.Time
}

// Resolve walks the fallback chain: metadata date fields in priority order,
// then filename patterns, then the filesystem birth time. The second return
// is false when no stage produced a date.
func Resolve(in Inputs) (ResolvedDate, bool) {
	if resolved, ok := fromMetadata(in.Metadata); ok {
		return resolved, true
	}
	if when, precision, ok := FromFilename(in.Filename); ok {
		return ResolvedDate{Time: when, Precision: precision, Source: SourceFilename}, true
	}
	if !in.BirthTime.IsZero() {
		return ResolvedDate{Time: in.BirthTime, Precision: PrecisionSecond, Source: SourceFilesystem}, true
	}
	return ResolvedDate{}, false
}

func fromMetadata(record mediameta.Record) (ResolvedDate, bool) {
	for _, field := range mediameta.DateFields {
		value, ok := record.Get(field)
		if !ok {
			continue
		}
		when, err := ParseTimestamp(value)
		if err != nil {
			continue
		}
		if when.Nanosecond() == 0 {
			when = enrichSubsecond(when, record, field)
		}
		precision := PrecisionSecond
		if when.Nanosecond() > 0 {
			precision = PrecisionSubsecond
		}
		return ResolvedDate{Time: when, Precision: precision, Source: SourceMetadata, Field: field}, true
	}
	return ResolvedDate{}, false
}

// enrichSubsecond folds the base field's own sub-second companion into a
// whole-second timestamp. The companion holds decimal fraction digits, so
// "7" means 700ms. A companion belonging to a different base field is never
// consulted.
func enrichSubsecond(when time.Time, record mediameta.Record, baseField string) time.Time {
	companion, ok := mediameta.SubSecCompanion[baseField]
	if !ok {
		return when
	}
	value, ok := record.Get(companion)
	if !ok {
		return when
	}
	nanos, ok := fractionDigitsToNanos(value)
	if !ok {
		return when
	}
	return when.Add(time.Duration(nanos))
}

func fractionDigitsToNanos(digits string) (int64, bool) {
	if digits == "" || len(digits) > 9 {
		return 0, false
	}
	var value int64
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
		value = value*10 + int64(r-'0')
	}
	for i := len(digits); i < 9; i++ {
		value *= 10
	}
	return value, true
}
