// Package config loads, validates, and normalizes briefcast configuration
// from a TOML file, applying defaults for anything unset.
package config
