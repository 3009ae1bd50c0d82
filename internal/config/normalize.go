package config

import "strings"

// normalize expands path fields, lowercases enum values, and fills in
// defaults for fields left empty by a partial config file.
func (c *Config) normalize() error {
	defaults := Default()

	fillString(&c.Paths.InputDir, defaults.Paths.InputDir)
	fillString(&c.Paths.OutputDir, defaults.Paths.OutputDir)
	fillString(&c.Paths.FingerprintDir, defaults.Paths.FingerprintDir)
	fillString(&c.Paths.LogDir, defaults.Paths.LogDir)

	for _, pathField := range []*string{
		&c.Paths.InputDir,
		&c.Paths.OutputDir,
		&c.Paths.FingerprintDir,
		&c.Paths.LogDir,
	} {
		expanded, err := expandPath(*pathField)
		if err != nil {
			return err
		}
		*pathField = expanded
	}

	fillString(&c.Organize.DateFormat, defaults.Organize.DateFormat)
	fillEnum(&c.Organize.DuplicatePolicy, defaults.Organize.DuplicatePolicy)
	fillEnum(&c.Organize.UnknownStrategy, defaults.Organize.UnknownStrategy)
	fillEnum(&c.Organize.ConflictResolution, defaults.Organize.ConflictResolution)
	fillEnum(&c.Organize.HashAlgorithm, defaults.Organize.HashAlgorithm)

	if c.Extractor.TimeoutSeconds <= 0 {
		c.Extractor.TimeoutSeconds = defaults.Extractor.TimeoutSeconds
	}
	c.Extractor.ExiftoolPath = strings.TrimSpace(c.Extractor.ExiftoolPath)

	if strings.TrimSpace(c.History.Path) != "" {
		expanded, err := expandPath(c.History.Path)
		if err != nil {
			return err
		}
		c.History.Path = expanded
	} else if c.History.Enabled {
		expanded, err := expandPath(defaults.History.Path)
		if err != nil {
			return err
		}
		c.History.Path = expanded
	}

	fillEnum(&c.Logging.Format, defaults.Logging.Format)
	fillEnum(&c.Logging.Level, defaults.Logging.Level)

	return nil
}

func fillString(field *string, fallback string) {
	if strings.TrimSpace(*field) == "" {
		*field = fallback
	}
}

func fillEnum(field *string, fallback string) {
	trimmed := strings.ToLower(strings.TrimSpace(*field))
	if trimmed == "" {
		trimmed = fallback
	}
	*field = trimmed
}
