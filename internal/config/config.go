package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir       string `toml:"input_dir"`
	OutputDir      string `toml:"output_dir"`
	FingerprintDir string `toml:"fingerprint_dir"`
	LogDir         string `toml:"log_dir"`
}

// Organize contains the routing and naming rules applied to each file.
type Organize struct {
	// DateFormat is a Go reference-time layout used for destination
	// filenames, e.g. "2006-01-02 at 15-04-05.000".
	DateFormat         string `toml:"date_format"`
	DuplicatePolicy    string `toml:"duplicate_policy"`
	UnknownStrategy    string `toml:"unknown_strategy"`
	ConflictResolution string `toml:"conflict_resolution"`
	HashAlgorithm      string `toml:"hash_algorithm"`
	ScanNested         bool   `toml:"scan_nested"`
	MaxFileSizeMB      int    `toml:"max_file_size_mb"`
}

// Extractor contains configuration for the external metadata extractor.
type Extractor struct {
	ExiftoolPath   string `toml:"exiftool_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Disabled       bool   `toml:"disabled"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Duplicate handling policies.
const (
	DuplicateSkip  = "skip"
	DuplicateError = "error"
)

// Unknown-date strategies.
const (
	UnknownRouteToUnknown = "route_to_unknown"
	UnknownUseCtime       = "use_ctime"
)

// Conflict resolution strategies.
const (
	ConflictHashSuffix = "hash_suffix"
	ConflictUUIDSuffix = "uuid_suffix"
)

// Config encapsulates all configuration values for shuttersort.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Organize  Organize  `toml:"organize"`
	Extractor Extractor `toml:"extractor"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shuttersort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shuttersort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into. The input
// directory is deliberately excluded; it must already exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.FingerprintDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return nil
}

// MaxFileSizeBytes returns the discovery size cap in bytes, or 0 when unlimited.
func (c *Config) MaxFileSizeBytes() int64 {
	if c.Organize.MaxFileSizeMB <= 0 {
		return 0
	}
	return int64(c.Organize.MaxFileSizeMB) * 1024 * 1024
}

// ExiftoolBinary returns the exiftool executable to invoke.
func (c *Config) ExiftoolBinary() string {
	if binary := strings.TrimSpace(c.Extractor.ExiftoolPath); binary != "" {
		return binary
	}
	return "exiftool"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
