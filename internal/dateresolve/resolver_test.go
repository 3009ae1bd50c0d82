package dateresolve

import (
	"testing"
	"time"

	"shuttersort/internal/mediameta"
)

func TestResolveFromMetadata(t *testing.T) {
	record := mediameta.NewRecord(map[string]string{
		mediameta.FieldDateTimeOriginal: "2024:07:22 14:12:24",
		mediameta.FieldModifyDate:       "2025:01:01 00:00:00",
	})

	resolved, ok := Resolve(Inputs{Metadata: record, Filename: "a.jpg"})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if resolved.Source != SourceMetadata || resolved.Field != mediameta.FieldDateTimeOriginal {
		t.Fatalf("wrong source: %+v", resolved)
	}
	if resolved.Precision != PrecisionSecond {
		t.Fatalf("wrong precision: %v", resolved.Precision)
	}
	want := time.Date(2024, 7, 22, 14, 12, 24, 0, time.Local)
	if !resolved.Time.Equal(want) {
		t.Fatalf("got %v want %v", resolved.Time, want)
	}
}

func TestResolveFieldPriority(t *testing.T) {
	record := mediameta.NewRecord(map[string]string{
		mediameta.FieldCreateDate:       "2023:03:03 03:03:03",
		mediameta.FieldDateTimeOriginal: "not a date",
	})

	resolved, ok := Resolve(Inputs{Metadata: record})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if resolved.Field != mediameta.FieldCreateDate {
		t.Fatalf("unparseable higher-priority field should be skipped, got %q", resolved.Field)
	}
}

func TestResolveQuickTimeCreateDateBeatsModifyDate(t *testing.T) {
	record := mediameta.NewRecord(map[string]string{
		mediameta.FieldQuickTimeCreateDate: "2020:06:15 10:30:00",
		mediameta.FieldDateTime:            "2023:01:01 00:00:00",
		mediameta.FieldModifyDate:          "2023:01:01 00:00:00",
	})

	resolved, ok := Resolve(Inputs{Metadata: record})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if resolved.Field != mediameta.FieldQuickTimeCreateDate {
		t.Fatalf("container creation date should outrank modify fields, got %q", resolved.Field)
	}
	want := time.Date(2020, 6, 15, 10, 30, 0, 0, time.Local)
	if !resolved.Time.Equal(want) {
		t.Fatalf("got %v want %v", resolved.Time, want)
	}
}

func TestResolveSubsecondEnrichment(t *testing.T) {
	record := mediameta.NewRecord(map[string]string{
		mediameta.FieldDateTimeOriginal:   "2024:07:22 14:12:24",
		mediameta.FieldSubSecTimeOriginal: "7",
	})

	resolved, ok := Resolve(Inputs{Metadata: record})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if resolved.Precision != PrecisionSubsecond {
		t.Fatalf("expected subsecond precision, got %v", resolved.Precision)
	}
	if resolved.Time.Nanosecond() != 700_000_000 {
		t.Fatalf("subsec digits are a decimal fraction: got %dns", resolved.Time.Nanosecond())
	}
}

func TestResolveSubsecondCompanionMatchesField(t *testing.T) {
	// SubSecTimeOriginal belongs to DateTimeOriginal; it must not leak onto
	// a CreateDate base.
	record := mediameta.NewRecord(map[string]string{
		mediameta.FieldCreateDate:         "2024:07:22 14:12:24",
		mediameta.FieldSubSecTimeOriginal: "9",
	})
	resolved, ok := Resolve(Inputs{Metadata: record})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if resolved.Precision != PrecisionSecond || resolved.Time.Nanosecond() != 0 {
		t.Fatalf("foreign companion must be ignored: %v %dns", resolved.Precision, resolved.Time.Nanosecond())
	}

	record = mediameta.NewRecord(map[string]string{
		mediameta.FieldCreateDate:          "2024:07:22 14:12:24",
		mediameta.FieldSubSecTimeDigitized: "25",
	})
	resolved, _ = Resolve(Inputs{Metadata: record})
	if resolved.Time.Nanosecond() != 250_000_000 {
		t.Fatalf("own companion should enrich: got %dns", resolved.Time.Nanosecond())
	}
}

func TestResolveInlineFractionBeatsSubsecField(t *testing.T) {
	record := mediameta.NewRecord(map[string]string{
		mediameta.FieldDateTimeOriginal:   "2024:07:22 14:12:24.25",
		mediameta.FieldSubSecTimeOriginal: "999",
	})

	resolved, _ := Resolve(Inputs{Metadata: record})
	if resolved.Time.Nanosecond() != 250_000_000 {
		t.Fatalf("inline fraction should win: got %dns", resolved.Time.Nanosecond())
	}
}

func TestResolveZoneOffsetPreserved(t *testing.T) {
	record := mediameta.NewRecord(map[string]string{
		mediameta.FieldDateTimeOriginal: "2024:07:22 14:12:24+02:00",
	})

	resolved, ok := Resolve(Inputs{Metadata: record})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	_, offset := resolved.Time.Zone()
	if offset != 2*60*60 {
		t.Fatalf("expected +02:00 offset, got %d", offset)
	}
}

func TestResolveFallsBackToFilename(t *testing.T) {
	resolved, ok := Resolve(Inputs{Filename: "IMG_20240716_182207.jpg"})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if resolved.Source != SourceFilename {
		t.Fatalf("wrong source: %v", resolved.Source)
	}
	want := time.Date(2024, 7, 16, 18, 22, 7, 0, time.Local)
	if !resolved.Time.Equal(want) {
		t.Fatalf("got %v want %v", resolved.Time, want)
	}
}

func TestResolveFallsBackToBirthTime(t *testing.T) {
	birth := time.Date(2022, 5, 1, 8, 30, 0, 0, time.Local)
	resolved, ok := Resolve(Inputs{Filename: "no-date-here.jpg", BirthTime: birth})
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if resolved.Source != SourceFilesystem {
		t.Fatalf("wrong source: %v", resolved.Source)
	}
	if !resolved.Time.Equal(birth) {
		t.Fatalf("got %v want %v", resolved.Time, birth)
	}
}

func TestResolveUnknown(t *testing.T) {
	if _, ok := Resolve(Inputs{Filename: "holiday.jpg"}); ok {
		t.Fatal("expected no resolution for a dateless file")
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "0000:00:00 00:00:00", "9999:12:31 00:00:00", "yesterday"} {
		if _, err := ParseTimestamp(value); err == nil {
			t.Fatalf("expected parse failure for %q", value)
		}
	}
}

func TestFromFilenameCases(t *testing.T) {
	cases := []struct {
		name      string
		want      time.Time
		precision Precision
		ok        bool
	}{
		{"2024-07-16.jpg", time.Date(2024, 7, 16, 0, 0, 0, 0, time.Local), PrecisionDay, true},
		{"2024-07-16 at 18-22-07.jpg", time.Date(2024, 7, 16, 18, 22, 7, 0, time.Local), PrecisionSecond, true},
		{"07-16-2024.jpg", time.Date(2024, 7, 16, 0, 0, 0, 0, time.Local), PrecisionDay, true},
		{"IMG_20240716_182207.jpg", time.Date(2024, 7, 16, 18, 22, 7, 0, time.Local), PrecisionSecond, true},
		{"IMG-20240716.jpg", time.Date(2024, 7, 16, 0, 0, 0, 0, time.Local), PrecisionDay, true},
		{"Screenshot_2024-07-16.png", time.Date(2024, 7, 16, 0, 0, 0, 0, time.Local), PrecisionDay, true},
		{"2024-02-30.jpg", time.Time{}, PrecisionDay, false},
		{"DSC_0001.jpg", time.Time{}, PrecisionDay, false},
		{"notes.txt", time.Time{}, PrecisionDay, false},
	}
	for _, tc := range cases {
		got, precision, ok := FromFilename(tc.name)
		if ok != tc.ok {
			t.Fatalf("%s: ok=%v want %v", tc.name, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if !got.Equal(tc.want) || precision != tc.precision {
			t.Fatalf("%s: got %v (%v) want %v (%v)", tc.name, got, precision, tc.want, tc.precision)
		}
	}
}
