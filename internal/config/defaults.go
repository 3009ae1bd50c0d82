package config

// Default returns a Config populated with default values. Paths are left
// relative here; Load expands them before validation.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:       "~/Pictures/incoming",
			OutputDir:      "~/Pictures/organized",
			FingerprintDir: "~/.local/share/shuttersort",
			LogDir:         "~/.local/share/shuttersort/logs",
		},
		Organize: Organize{
			DateFormat:         "2006-01-02 at 15-04-05.000",
			DuplicatePolicy:    DuplicateSkip,
			UnknownStrategy:    UnknownRouteToUnknown,
			ConflictResolution: ConflictHashSuffix,
			HashAlgorithm:      "sha256",
			ScanNested:         true,
			MaxFileSizeMB:      1024,
		},
		Extractor: Extractor{
			ExiftoolPath:   "",
			TimeoutSeconds: 30,
			Disabled:       false,
		},
		History: History{
			Enabled: true,
			Path:    "~/.local/share/shuttersort/history.db",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
