package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"briefcast/internal/config"
	"briefcast/internal/failure"
)

const premiumOutputFormat = "mp3_44100_128"

// PremiumClient speaks the ElevenLabs text-to-speech API. Requests are
// throttled client-side to stay under the plan's per-minute limit.
type PremiumClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewPremiumClient builds the premium backend from TTS configuration.
func NewPremiumClient(cfg config.TTS) *PremiumClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	return &PremiumClient{
		apiKey:     strings.TrimSpace(cfg.PremiumAPIKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.PremiumBaseURL), "/"),
		model:      strings.TrimSpace(cfg.PremiumModel),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

func (c *PremiumClient) Name() string { return "premium" }

// Synthesize renders the text with the given voice and returns MP3 bytes.
func (c *PremiumClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("premium tts: %w: api key not configured", failure.ErrAuthFailed)
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, fmt.Errorf("premium tts: voice id required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("premium tts: rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.baseURL, url.PathEscape(voiceID), premiumOutputFormat)
	body, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("premium tts: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("premium tts: new request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("premium tts: http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, synthesisStatusError("premium tts", resp.StatusCode, snippet)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("premium tts: read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("premium tts: empty audio response")
	}
	return audio, nil
}

func synthesisStatusError(op string, status int, snippet []byte) error {
	detail := strings.TrimSpace(string(snippet))
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w: http %d: %s", op, failure.ErrAuthFailed, status, detail)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w: http %d: %s", op, failure.ErrQuotaExhausted, status, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: http %d: %s", op, failure.ErrRateLimited, status, detail)
	}
	return fmt.Errorf("%s: http %d: %s", op, status, detail)
}
