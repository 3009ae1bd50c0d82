// Package config loads and validates the TOML configuration file.
//
// Lookup order: an explicit --config path, then
// ~/.config/shuttersort/config.toml, then shuttersort.toml in the working
// directory. Missing files fall back to defaults so the tool stays usable
// with nothing but --input and --output flags.
package config
