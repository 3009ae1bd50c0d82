package services

import (
	"errors"
	"io/fs"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrStorePersistence, "fingerprint", "persist", "rotate backup", fs.ErrPermission)
	if !errors.Is(err, ErrStorePersistence) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
	want := "store persistence failure: fingerprint: persist: rotate backup: permission denied"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if err.Error() != "external tool error: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
