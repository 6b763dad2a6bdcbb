// Package library triggers Audiobookshelf scans so freshly assembled
// episodes show up in the podcast app.
package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"briefcast/internal/config"
	"briefcast/internal/failure"
	"briefcast/internal/logging"
)

// Client talks to one Audiobookshelf instance.
type Client struct {
	baseURL    string
	apiKey     string
	libraryID  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a library client from configuration.
func NewClient(cfg config.Library, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		libraryID:  strings.TrimSpace(cfg.LibraryID),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "library"),
	}
}

// Enabled reports whether a scan target is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.libraryID != ""
}

// Scan asks the server to rescan the configured library.
func (c *Client) Scan(ctx context.Context) error {
	if !c.Enabled() {
		return failure.Wrap(failure.ErrLibraryScan, "library", "scan", "library url or id not configured", nil)
	}
	endpoint := fmt.Sprintf("%s/api/libraries/%s/scan", c.baseURL, c.libraryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return failure.Wrap(failure.ErrLibraryScan, "library", "scan", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure.Wrap(failure.ErrLibraryScan, "library", "scan", "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return failure.Wrap(failure.ErrLibraryScan, "library", "scan",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}
	c.logger.Info("library scan triggered")
	return nil
}

// PodcastURL returns the link embedded in digest emails.
func (c *Client) PodcastURL() string {
	return c.baseURL
}
