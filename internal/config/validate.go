package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports configuration problems that would make a run impossible or
// surprising. Podcast settings are only checked when the podcast is enabled.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must not be empty")
	}
	if c.Feeds.MaxPerFeed <= 0 {
		problems = append(problems, "feeds.max_per_feed must be positive")
	}
	if c.Feeds.RecencyHours <= 0 {
		problems = append(problems, "feeds.recency_hours must be positive")
	}
	if c.Retention.HistoryDays <= 0 {
		problems = append(problems, "retention.history_days must be positive")
	}
	if c.Retention.AudioDays <= 0 {
		problems = append(problems, "retention.audio_days must be positive")
	}
	if c.Email.Port <= 0 || c.Email.Port > 65535 {
		problems = append(problems, fmt.Sprintf("email.port %d out of range", c.Email.Port))
	}

	if c.PodcastEnabled() {
		if c.Audio.SilenceGapMS < 0 {
			problems = append(problems, "audio.silence_gap_ms must not be negative")
		}
		if c.Audio.SampleRate <= 0 {
			problems = append(problems, "audio.sample_rate must be positive")
		}
		if c.Audio.BitrateKbps <= 0 {
			problems = append(problems, "audio.bitrate_kbps must be positive")
		}
		pinned := strings.TrimSpace(c.TTS.Pins.HostA) != "" && strings.TrimSpace(c.TTS.Pins.HostB) != ""
		if !pinned && (len(c.TTS.FallbackVoicesA) == 0 || len(c.TTS.FallbackVoicesB) == 0) {
			problems = append(problems, "tts fallback voice pools must not be empty unless both hosts are pinned")
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q not supported (console, json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
