// Package preflight validates the environment before a run starts, so
// predictable failures surface as one readable report instead of scattered
// mid-run errors.
package preflight

import (
	"context"

	"shuttersort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Fatal marks checks the run cannot proceed without. Non-fatal
	// failures degrade features and are reported as warnings.
	Fatal  bool
	Detail string
}

// RunAll executes all preflight checks. requiredBytes is the total size of
// the discovered input set, used for the free-space check; pass 0 to skip
// it.
func RunAll(ctx context.Context, cfg *config.Config, requiredBytes int64) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Input directory", cfg.Paths.InputDir, true),
		CheckDirectoryCreatable("Output directory", cfg.Paths.OutputDir, true),
		CheckDirectoryCreatable("Fingerprint directory", cfg.Paths.FingerprintDir, false),
	}

	if requiredBytes > 0 {
		results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir, requiredBytes))
	}

	if !cfg.Extractor.Disabled {
		results = append(results, CheckBinary("exiftool", cfg.ExiftoolBinary(), false))
	}

	return results
}

// FatalFailure reports whether any fatal check failed.
func FatalFailure(results []Result) bool {
	for _, result := range results {
		if result.Fatal && !result.Passed {
			return true
		}
	}
	return false
}
