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
	DataDir        string `toml:"data_dir"`
	AudioOutputDir string `toml:"audio_output_dir"`
	LogDir         string `toml:"log_dir"`
}

// FeedSource names one syndication feed.
type FeedSource struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Feeds contains feed retrieval configuration.
type Feeds struct {
	Sources        []FeedSource `toml:"sources"`
	MaxPerFeed     int          `toml:"max_per_feed"`
	RecencyHours   int          `toml:"recency_hours"`
	TimeoutSeconds int          `toml:"timeout_seconds"`
}

// Digest contains settings for the selection/summarization service.
type Digest struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Interests      string `toml:"interests"`
	ReaderName     string `toml:"reader_name"`
}

// Script contains settings for the podcast script generation service.
type Script struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Voice pairs a display name with a backend voice identifier.
type Voice struct {
	Name string `toml:"name"`
	ID   string `toml:"id"`
}

// VoicePins hold explicit per-host voice overrides for the premium backend.
type VoicePins struct {
	HostA string `toml:"host_a"`
	HostB string `toml:"host_b"`
}

// TTS contains synthesis backend configuration.
type TTS struct {
	PremiumAPIKey     string    `toml:"premium_api_key"`
	PremiumBaseURL    string    `toml:"premium_base_url"`
	PremiumModel      string    `toml:"premium_model"`
	FallbackBaseURL   string    `toml:"fallback_base_url"`
	TimeoutSeconds    int       `toml:"timeout_seconds"`
	RequestsPerMinute int       `toml:"requests_per_minute"`
	Pins              VoicePins `toml:"pins"`
	PremiumVoicesA    []Voice   `toml:"premium_voices_a"`
	PremiumVoicesB    []Voice   `toml:"premium_voices_b"`
	FallbackVoicesA   []Voice   `toml:"fallback_voices_a"`
	FallbackVoicesB   []Voice   `toml:"fallback_voices_b"`
}

// Audio contains episode assembly parameters.
type Audio struct {
	SilenceGapMS   int    `toml:"silence_gap_ms"`
	IntroMusicPath string `toml:"intro_music_path"`
	OutroMusicPath string `toml:"outro_music_path"`
	SampleRate     int    `toml:"sample_rate"`
	BitrateKbps    int    `toml:"bitrate_kbps"`
	TestMode       bool   `toml:"test_mode"`
}

// Email contains SMTP delivery configuration.
type Email struct {
	Host       string   `toml:"host"`
	Port       int      `toml:"port"`
	Username   string   `toml:"username"`
	Password   string   `toml:"password"`
	From       string   `toml:"from"`
	Recipients []string `toml:"recipients"`
}

// Library contains Audiobookshelf integration settings.
type Library struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	LibraryID      string `toml:"library_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Retention contains age thresholds for stored state and artifacts.
type Retention struct {
	HistoryDays int `toml:"history_days"`
	AudioDays   int `toml:"audio_days"`
	LogDays     int `toml:"log_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for briefcast.
//
// Configuration sections by subsystem:
//   - Paths: data, audio output, and log directories
//   - Feeds: syndication sources and fetch limits
//   - Digest: selection/summarization LLM settings and reader interests
//   - Script: podcast script generation LLM settings
//   - TTS: premium + fallback synthesis backends, voice pools and pins
//   - Audio: silence gap, music beds, output format
//   - Email: SMTP transport and recipients
//   - Library: Audiobookshelf scan trigger
//   - Retention: history/audio/log age thresholds
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Feeds     Feeds     `toml:"feeds"`
	Digest    Digest    `toml:"digest"`
	Script    Script    `toml:"script"`
	TTS       TTS       `toml:"tts"`
	Audio     Audio     `toml:"audio"`
	Email     Email     `toml:"email"`
	Library   Library   `toml:"library"`
	Retention Retention `toml:"retention"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/briefcast/config.toml")
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

	projectPath, err := filepath.Abs("briefcast.toml")
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

// PodcastEnabled reports whether the podcast stages should run. The presence
// of an audio output directory is the enable switch.
func (c *Config) PodcastEnabled() bool {
	return strings.TrimSpace(c.Paths.AudioOutputDir) != ""
}

// EnsureDirectories creates required directories for a run. The audio output
// directory is created on a best-effort basis so a missing music share never
// blocks the email path.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.PodcastEnabled() {
		// Best-effort to keep the email path alive when storage is offline.
		_ = os.MkdirAll(c.Paths.AudioOutputDir, 0o755)
	}
	return nil
}

// HistoryDBPath returns the location of the article history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// FFmpegBinary returns the ffmpeg executable name used for audio transcoding.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
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
