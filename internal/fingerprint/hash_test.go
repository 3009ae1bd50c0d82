package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHashFileKnownDigests(t *testing.T) {
	path := writeFixture(t, "hello world")

	cases := []struct {
		algorithm Algorithm
		want      string
	}{
		{SHA256, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
		{SHA1, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"},
		{MD5, "5eb63bbbe01eeed093cb22bb8f5acdc3"},
	}
	for _, tc := range cases {
		got, err := HashFile(path, tc.algorithm)
		if err != nil {
			t.Fatalf("%s: %v", tc.algorithm, err)
		}
		if got != tc.want {
			t.Fatalf("%s digest mismatch: got %s want %s", tc.algorithm, got, tc.want)
		}
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "absent"), SHA256); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseAlgorithm(t *testing.T) {
	if algo, err := ParseAlgorithm(" SHA256 "); err != nil || algo != SHA256 {
		t.Fatalf("got %q, %v", algo, err)
	}
	if _, err := ParseAlgorithm("crc32"); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}
