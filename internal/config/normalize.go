package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AudioOutputDir) != "" {
		if c.Paths.AudioOutputDir, err = expandPath(c.Paths.AudioOutputDir); err != nil {
			return fmt.Errorf("audio_output_dir: %w", err)
		}
	} else {
		c.Paths.AudioOutputDir = ""
	}
	if strings.TrimSpace(c.Audio.IntroMusicPath) != "" {
		if c.Audio.IntroMusicPath, err = expandPath(c.Audio.IntroMusicPath); err != nil {
			return fmt.Errorf("intro_music_path: %w", err)
		}
	}
	if strings.TrimSpace(c.Audio.OutroMusicPath) != "" {
		if c.Audio.OutroMusicPath, err = expandPath(c.Audio.OutroMusicPath); err != nil {
			return fmt.Errorf("outro_music_path: %w", err)
		}
	}

	c.Digest.APIKey = strings.TrimSpace(c.Digest.APIKey)
	c.Digest.BaseURL = strings.TrimSpace(c.Digest.BaseURL)
	c.Digest.Model = strings.TrimSpace(c.Digest.Model)
	c.Script.APIKey = strings.TrimSpace(c.Script.APIKey)
	c.Script.BaseURL = strings.TrimSpace(c.Script.BaseURL)
	c.Script.Model = strings.TrimSpace(c.Script.Model)
	c.TTS.PremiumAPIKey = strings.TrimSpace(c.TTS.PremiumAPIKey)
	c.TTS.PremiumBaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.PremiumBaseURL), "/")
	c.TTS.FallbackBaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.FallbackBaseURL), "/")
	c.Library.URL = strings.TrimRight(strings.TrimSpace(c.Library.URL), "/")
	c.Library.APIKey = strings.TrimSpace(c.Library.APIKey)
	c.Library.LibraryID = strings.TrimSpace(c.Library.LibraryID)
	c.Email.From = strings.TrimSpace(c.Email.From)
	c.Email.Username = strings.TrimSpace(c.Email.Username)

	recipients := make([]string, 0, len(c.Email.Recipients))
	for _, r := range c.Email.Recipients {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	c.Email.Recipients = recipients

	sources := make([]FeedSource, 0, len(c.Feeds.Sources))
	for _, s := range c.Feeds.Sources {
		s.Name = strings.TrimSpace(s.Name)
		s.URL = strings.TrimSpace(s.URL)
		if s.URL == "" {
			continue
		}
		if s.Name == "" {
			s.Name = s.URL
		}
		sources = append(sources, s)
	}
	c.Feeds.Sources = sources

	return nil
}
