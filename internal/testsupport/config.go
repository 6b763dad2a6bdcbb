// Package testsupport builds per-test configurations and stores.
package testsupport

import (
	"path/filepath"
	"testing"

	"briefcast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithPodcast enables the podcast stages by pointing the audio output
// directory at a fresh temp dir.
func WithPodcast(t testing.TB) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.AudioOutputDir = t.TempDir()
	}
}

// WithTestMode enables the shortened test-mode episode target.
func WithTestMode() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Audio.TestMode = true
	}
}
