package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shuttersort/internal/fingerprint"
	"shuttersort/internal/services"
)

func TestCopyVerified(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "photo.jpg")
	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	modTime := time.Date(2024, 7, 22, 14, 12, 24, 0, time.Local)
	if err := os.Chtimes(src, modTime, modTime); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "2024", "07", "copy.jpg")
	digest := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if err := CopyVerified(src, dst, fingerprint.SHA256, digest); err != nil {
		t.Fatalf("CopyVerified: %v", err)
	}

	copied, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(copied) != "hello world" {
		t.Fatalf("content mismatch: %q", copied)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(modTime) {
		t.Fatalf("mtime not preserved: %v", info.ModTime())
	}
}

func TestCopyVerifiedDigestMismatchRemovesDestination(t *testing.T) {
	src := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "copy.jpg")
	err := CopyVerified(src, dst, fingerprint.SHA256, "not-the-digest")
	if !errors.Is(err, services.ErrCopy) {
		t.Fatalf("expected copy marker, got %v", err)
	}
	if _, statErr := os.Stat(dst); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("mismatched copy should be removed")
	}
}

func TestCopyVerifiedMissingSource(t *testing.T) {
	err := CopyVerified(filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "copy"), fingerprint.SHA256, "")
	if !errors.Is(err, services.ErrCopy) {
		t.Fatalf("expected copy marker, got %v", err)
	}
}
