package plan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"shuttersort/internal/config"
	"shuttersort/internal/dateresolve"
	"shuttersort/internal/fingerprint"
)

func testPlanner(t *testing.T) *Planner {
	t.Helper()
	return &Planner{
		OutputRoot:         t.TempDir(),
		DateFormat:         "2006-01-02 at 15-04-05.000",
		UnknownStrategy:    config.UnknownRouteToUnknown,
		ConflictResolution: config.ConflictHashSuffix,
		Algorithm:          fingerprint.SHA256,
	}
}

func resolvedAt(t *testing.T, value string) dateresolve.ResolvedDate {
	t.Helper()
	when, err := dateresolve.ParseTimestamp(value)
	if err != nil {
		t.Fatal(err)
	}
	return dateresolve.ResolvedDate{Time: when, Precision: dateresolve.PrecisionSecond, Source: dateresolve.SourceMetadata}
}

func TestDatedPlacement(t *testing.T) {
	planner := testPlanner(t)

	placement, err := planner.Dated(resolvedAt(t, "2024:07:22 14:12:24"), "/in/photo.JPG", "abc123")
	if err != nil {
		t.Fatalf("Dated: %v", err)
	}
	if placement.Bucket != BucketDated {
		t.Fatalf("wrong bucket: %v", placement.Bucket)
	}
	want := filepath.Join(planner.OutputRoot, "2024", "07", "2024-07-22 at 14-12-24.000.JPG")
	if placement.Path != want {
		t.Fatalf("got %q want %q", placement.Path, want)
	}
}

func TestUnknownPlacementRouting(t *testing.T) {
	planner := testPlanner(t)

	placement, err := planner.Unknown("holiday.jpg", "abc", time.Time{})
	if err != nil {
		t.Fatalf("Unknown: %v", err)
	}
	want := filepath.Join(planner.OutputRoot, "unknown", "holiday.jpg")
	if placement.Path != want || placement.Bucket != BucketUnknown {
		t.Fatalf("got %+v want path %q", placement, want)
	}
}

func TestUnknownPlacementMirrorsRelativePath(t *testing.T) {
	planner := testPlanner(t)

	placement, err := planner.Unknown(filepath.Join("vacation", "holiday.jpg"), "abc", time.Time{})
	if err != nil {
		t.Fatalf("Unknown: %v", err)
	}
	want := filepath.Join(planner.OutputRoot, "unknown", "vacation", "holiday.jpg")
	if placement.Path != want {
		t.Fatalf("got %q want %q", placement.Path, want)
	}

	// A same-named file from another folder gets its own mirrored slot, not
	// a conflict suffix.
	sibling, err := planner.Unknown(filepath.Join("weekend", "holiday.jpg"), "def", time.Time{})
	if err != nil {
		t.Fatalf("Unknown: %v", err)
	}
	if sibling.Path == placement.Path {
		t.Fatal("mirrored placements must not collide across folders")
	}
	if filepath.Base(filepath.Dir(sibling.Path)) != "weekend" {
		t.Fatalf("expected weekend subdirectory, got %q", sibling.Path)
	}
}

func TestUnknownPlacementUseCtime(t *testing.T) {
	planner := testPlanner(t)
	planner.UnknownStrategy = config.UnknownUseCtime

	modTime := time.Date(2023, 11, 5, 10, 0, 0, 0, time.Local)
	placement, err := planner.Unknown(filepath.Join("vacation", "holiday.jpg"), "abc", modTime)
	if err != nil {
		t.Fatalf("Unknown: %v", err)
	}
	want := filepath.Join(planner.OutputRoot, "2023", "11", "holiday.jpg")
	if placement.Path != want || placement.Bucket != BucketDated {
		t.Fatalf("got %+v want path %q", placement, want)
	}
}

func TestErroredPlacement(t *testing.T) {
	planner := testPlanner(t)

	placement, err := planner.Errored(filepath.Join("raw", "bro:ken.jpg"), "abc")
	if err != nil {
		t.Fatalf("Errored: %v", err)
	}
	want := filepath.Join(planner.OutputRoot, "error", "raw", "bro_ken.jpg")
	if placement.Path != want || placement.Bucket != BucketError {
		t.Fatalf("got %+v want path %q", placement, want)
	}
}

func TestConflictHashSuffix(t *testing.T) {
	planner := testPlanner(t)
	resolved := resolvedAt(t, "2024:07:22 14:12:24")

	occupied := filepath.Join(planner.OutputRoot, "2024", "07", "2024-07-22 at 14-12-24.000.jpg")
	if err := os.MkdirAll(filepath.Dir(occupied), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(occupied, []byte("other content"), 0o644); err != nil {
		t.Fatal(err)
	}

	digest := "deadbeefcafe0123456789"
	placement, err := planner.Dated(resolved, "/in/photo.jpg", digest)
	if err != nil {
		t.Fatalf("Dated: %v", err)
	}
	want := filepath.Join(planner.OutputRoot, "2024", "07", "2024-07-22 at 14-12-24.000_deadbeef.jpg")
	if placement.Path != want {
		t.Fatalf("got %q want %q", placement.Path, want)
	}
}

func TestConflictIdenticalContentIsDuplicate(t *testing.T) {
	planner := testPlanner(t)
	resolved := resolvedAt(t, "2024:07:22 14:12:24")

	content := []byte("hello world")
	digest, err := hashBytes(t, content)
	if err != nil {
		t.Fatal(err)
	}
	occupied := filepath.Join(planner.OutputRoot, "2024", "07", "2024-07-22 at 14-12-24.000.jpg")
	if err := os.MkdirAll(filepath.Dir(occupied), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(occupied, content, 0o644); err != nil {
		t.Fatal(err)
	}

	placement, err := planner.Dated(resolved, "/in/photo.jpg", digest)
	if !errors.Is(err, ErrDuplicateAtDestination) {
		t.Fatalf("expected duplicate-at-destination, got %v", err)
	}
	if placement.Path != occupied {
		t.Fatalf("duplicate placement should point at the occupant: %q", placement.Path)
	}
}

func hashBytes(t *testing.T, content []byte) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return fingerprint.HashFile(path, fingerprint.SHA256)
}

func TestConflictUUIDSuffix(t *testing.T) {
	planner := testPlanner(t)
	planner.ConflictResolution = config.ConflictUUIDSuffix
	resolved := resolvedAt(t, "2024:07:22 14:12:24")

	first := filepath.Join(planner.OutputRoot, "2024", "07", "2024-07-22 at 14-12-24.000.jpg")
	if err := os.MkdirAll(filepath.Dir(first), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(first, []byte("other"), 0o644); err != nil {
		t.Fatal(err)
	}

	placement, err := planner.Dated(resolved, "/in/photo.jpg", "abc")
	if err != nil {
		t.Fatalf("Dated: %v", err)
	}
	base := filepath.Base(placement.Path)
	if !strings.HasPrefix(base, "2024-07-22 at 14-12-24.000_") || !strings.HasSuffix(base, ".jpg") {
		t.Fatalf("unexpected uuid-suffixed name: %q", base)
	}
	if placement.Path == first {
		t.Fatal("suffixed path should differ from the occupant")
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":        "photo.jpg",
		`bad:na/me?.jpg`:   "bad_na_me_.jpg",
		"tab\there.jpg":    "tab_here.jpg",
		"   ":              "_",
		"<angles>|pipe.so": "_angles___pipe.so",
	}
	for input, want := range cases {
		if got := Sanitize(input); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", input, got, want)
		}
	}

	long := strings.Repeat("x", 300) + ".jpg"
	sanitized := Sanitize(long)
	if len(sanitized) != maxBaseNameLength+len(".jpg") {
		t.Fatalf("long name not clamped: %d chars", len(sanitized))
	}
	if !strings.HasSuffix(sanitized, ".jpg") {
		t.Fatal("extension must survive clamping")
	}
}

func TestSanitizeClampsOnRunes(t *testing.T) {
	long := strings.Repeat("ü", 300) + ".jpg"
	sanitized := Sanitize(long)
	if !utf8.ValidString(sanitized) {
		t.Fatalf("clamping split a multi-byte rune: %q", sanitized[:8])
	}
	base := strings.TrimSuffix(sanitized, ".jpg")
	if got := utf8.RuneCountInString(base); got != maxBaseNameLength {
		t.Fatalf("expected %d runes, got %d", maxBaseNameLength, got)
	}
}

func TestSanitizeRel(t *testing.T) {
	cases := map[string]string{
		"holiday.jpg":               "holiday.jpg",
		"vacation/holiday.jpg":      filepath.Join("vacation", "holiday.jpg"),
		"trip 2019/day:1/photo.jpg": filepath.Join("trip 2019", "day_1", "photo.jpg"),
		"../../etc/passwd":          filepath.Join("etc", "passwd"),
		"./vacation/./holiday.jpg":  filepath.Join("vacation", "holiday.jpg"),
		"..":                        "_",
	}
	for input, want := range cases {
		if got := SanitizeRel(input); got != want {
			t.Fatalf("SanitizeRel(%q) = %q, want %q", input, got, want)
		}
	}
}
