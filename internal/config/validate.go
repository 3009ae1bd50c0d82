package config

import (
	"fmt"
	"strings"

	"shuttersort/internal/services"
)

var dateFormatTokens = []string{"2006", "01", "02", "15", "04", "05"}

// Validate checks the configuration for unusable values. It assumes
// normalize has already run.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.InputDir == c.Paths.OutputDir {
		problems = append(problems, "paths.input_dir and paths.output_dir must differ")
	}

	switch c.Organize.DuplicatePolicy {
	case DuplicateSkip, DuplicateError:
	default:
		problems = append(problems, fmt.Sprintf("organize.duplicate_policy must be %q or %q, got %q", DuplicateSkip, DuplicateError, c.Organize.DuplicatePolicy))
	}

	switch c.Organize.UnknownStrategy {
	case UnknownRouteToUnknown, UnknownUseCtime:
	default:
		problems = append(problems, fmt.Sprintf("organize.unknown_strategy must be %q or %q, got %q", UnknownRouteToUnknown, UnknownUseCtime, c.Organize.UnknownStrategy))
	}

	switch c.Organize.ConflictResolution {
	case ConflictHashSuffix, ConflictUUIDSuffix:
	default:
		problems = append(problems, fmt.Sprintf("organize.conflict_resolution must be %q or %q, got %q", ConflictHashSuffix, ConflictUUIDSuffix, c.Organize.ConflictResolution))
	}

	switch c.Organize.HashAlgorithm {
	case "sha256", "sha1", "md5":
	default:
		problems = append(problems, fmt.Sprintf("organize.hash_algorithm must be sha256, sha1, or md5, got %q", c.Organize.HashAlgorithm))
	}

	if !containsDateToken(c.Organize.DateFormat) {
		problems = append(problems, fmt.Sprintf("organize.date_format %q contains no Go reference-time token", c.Organize.DateFormat))
	}

	if c.Organize.MaxFileSizeMB < 0 {
		problems = append(problems, "organize.max_file_size_mb must not be negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level))
	}

	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		problems = append(problems, "history.path must be set when history.enabled is true")
	}

	if len(problems) > 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate", strings.Join(problems, "; "), nil)
	}
	return nil
}

func containsDateToken(layout string) bool {
	for _, token := range dateFormatTokens {
		if strings.Contains(layout, token) {
			return true
		}
	}
	return false
}
