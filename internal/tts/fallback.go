package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"briefcast/internal/config"
)

// FallbackClient speaks an OpenAI-compatible speech endpoint, typically a
// local bridge in front of the free neural voices. No API key is required.
type FallbackClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFallbackClient builds the fallback backend from TTS configuration.
func NewFallbackClient(cfg config.TTS) *FallbackClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &FallbackClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.FallbackBaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *FallbackClient) Name() string { return "fallback" }

// Synthesize renders the text with the given voice and returns MP3 bytes.
func (c *FallbackClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("fallback tts: base url not configured")
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, fmt.Errorf("fallback tts: voice id required")
	}
	body, err := json.Marshal(map[string]string{
		"input":           text,
		"voice":           voiceID,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("fallback tts: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fallback tts: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fallback tts: http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, synthesisStatusError("fallback tts", resp.StatusCode, snippet)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fallback tts: read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("fallback tts: empty audio response")
	}
	return audio, nil
}
