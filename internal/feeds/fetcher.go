package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"briefcast/internal/config"
	"briefcast/internal/failure"
	"briefcast/internal/logging"
)

const (
	userAgent       = "briefcast/1.0 (+daily digest)"
	maxSummaryRunes = 500
)

// Fetcher pulls articles from every configured source.
type Fetcher struct {
	sources    []config.FeedSource
	maxPerFeed int
	recency    time.Duration
	client     *http.Client
	sanitizer  *bluemonday.Policy
	logger     *slog.Logger

	// parse is swappable in tests so no network is needed.
	parse func(ctx context.Context, url string) (*gofeed.Feed, error)
}

// NewFetcher builds a fetcher from configuration.
func NewFetcher(cfg *config.Config, logger *slog.Logger) *Fetcher {
	timeout := time.Duration(cfg.Feeds.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	fetcher := &Fetcher{
		sources:    cfg.Feeds.Sources,
		maxPerFeed: cfg.Feeds.MaxPerFeed,
		recency:    time.Duration(cfg.Feeds.RecencyHours) * time.Hour,
		client:     client,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logging.NewComponentLogger(logger, "feeds"),
	}
	fetcher.parse = func(ctx context.Context, url string) (*gofeed.Feed, error) {
		return parser.ParseURLWithContext(url, ctx)
	}
	return fetcher
}

// FetchAll retrieves recent articles from every source. Individual feed
// failures are logged as FeedFetchError and skipped; the returned error is
// non-nil only when the fetcher itself is misconfigured.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Article, error) {
	if len(f.sources) == 0 {
		return nil, fmt.Errorf("no feed sources configured")
	}

	cutoff := time.Now().Add(-f.recency)
	var all []Article
	for _, source := range f.sources {
		articles, err := f.fetchOne(ctx, source, cutoff)
		if err != nil {
			wrapped := failure.Wrap(failure.ErrFeedFetch, "fetch", source.Name, "", err)
			f.logger.Warn("feed fetch failed; continuing with remaining sources",
				logging.String(logging.FieldFeed, source.Name),
				logging.Error(wrapped),
				logging.String(logging.FieldEventType, "feed_fetch_failed"),
			)
			continue
		}
		f.logger.Info("feed fetched",
			logging.String(logging.FieldFeed, source.Name),
			logging.Int("articles", len(articles)),
		)
		all = append(all, articles...)
	}
	return all, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, source config.FeedSource, cutoff time.Time) ([]Article, error) {
	feed, err := f.parse(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	articles := make([]Article, 0, f.maxPerFeed)
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		published := itemTime(item)
		// Items without a date are kept; dated items older than the
		// recency window are not.
		if !published.IsZero() && published.Before(cutoff) {
			continue
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		articles = append(articles, Article{
			Source:      source.Name,
			Title:       title,
			URL:         link,
			Summary:     f.cleanSummary(item),
			PublishedAt: published,
		})
		if len(articles) >= f.maxPerFeed {
			break
		}
	}
	return articles, nil
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func (f *Fetcher) cleanSummary(item *gofeed.Item) string {
	summary := item.Description
	if strings.TrimSpace(summary) == "" {
		summary = item.Content
	}
	summary = f.sanitizer.Sanitize(summary)
	summary = strings.Join(strings.Fields(summary), " ")
	runes := []rune(summary)
	if len(runes) > maxSummaryRunes {
		summary = string(runes[:maxSummaryRunes])
	}
	return summary
}
