// Package testsupport holds shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"shuttersort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The extractor is disabled so tests never depend on an exiftool binary.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.FingerprintDir = filepath.Join(base, "fingerprints")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.History.Path = filepath.Join(base, "history.db")
	cfg.Extractor.Disabled = true

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithHistoryDisabled turns off run history on the test config.
func WithHistoryDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = false
	}
}

// WithDuplicatePolicy overrides the duplicate policy on the test config.
func WithDuplicatePolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Organize.DuplicatePolicy = policy
	}
}
