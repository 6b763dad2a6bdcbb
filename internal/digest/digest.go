// Package digest turns the day's deduplicated articles into a curated HTML
// digest via a chat completion model.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"briefcast/internal/config"
	"briefcast/internal/feeds"
	"briefcast/internal/llm"
	"briefcast/internal/logging"
)

// Completer is the chat capability the builder needs. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Digest is one day's curated summary.
type Digest struct {
	Date   time.Time
	HTML   string
	Topics []string
}

// Builder assembles the digest prompt and post-processes the model output.
type Builder struct {
	client     Completer
	interests  string
	readerName string
	logger     *slog.Logger
}

// NewBuilder constructs a digest builder from configuration.
func NewBuilder(cfg *config.Config, logger *slog.Logger) *Builder {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.Digest.APIKey,
		BaseURL:        cfg.Digest.BaseURL,
		Model:          cfg.Digest.Model,
		TimeoutSeconds: cfg.Digest.TimeoutSeconds,
	})
	return &Builder{
		client:     client,
		interests:  cfg.Digest.Interests,
		readerName: cfg.Digest.ReaderName,
		logger:     logging.NewComponentLogger(logger, "digest"),
	}
}

// Build produces the digest for the given date from the supplied articles.
func (b *Builder) Build(ctx context.Context, date time.Time, articles []feeds.Article) (Digest, error) {
	if len(articles) == 0 {
		return Digest{}, fmt.Errorf("digest build: no articles to summarize")
	}

	content, err := b.client.Complete(ctx, b.systemPrompt(), b.userPrompt(date, articles))
	if err != nil {
		return Digest{}, fmt.Errorf("digest build: %w", err)
	}
	html := CleanMarkdown(content)
	if strings.TrimSpace(html) == "" {
		return Digest{}, fmt.Errorf("digest build: model returned empty digest")
	}

	result := Digest{Date: date, HTML: html, Topics: ExtractTopics(html)}
	b.logger.Info("digest built",
		logging.Int("articles", len(articles)),
		logging.Int("topics", len(result.Topics)),
	)
	return result, nil
}

func (b *Builder) systemPrompt() string {
	return `You are an editor producing a personalized daily news digest email.

INSTRUCTIONS:
- Open with a "Top Priority" section containing the 4-6 most significant stories.
- Group the remaining stories into themed sections matching the reader's interests.
- For each story give a 2-3 sentence summary, why it matters to the reader, and the source link.
- When multiple sources cover the same story, keep only the best one.
- Skip a section entirely if it would hold fewer than 2 quality articles.
- Exclude gossip, price speculation, partisan opinion pieces, clickbait, and promotional content.
- Close with an optional "Quick Hits" section of at most 5 one-liners.

OUTPUT FORMAT:
Return ONLY valid HTML, no markdown and no code fences.
- <h1> for the digest title, <h2> for section headers.
- <ul>/<li> for article lists.
- <strong><a href="URL">Title</a></strong> (Source)<br> then the summary inside each <li>.`
}

func (b *Builder) userPrompt(date time.Time, articles []feeds.Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create the digest for %s, dated %s.\n\n",
		b.readerName, date.Format("Monday, January 2, 2006"))
	if strings.TrimSpace(b.interests) != "" {
		sb.WriteString("READER INTERESTS (in priority order):\n")
		sb.WriteString(strings.TrimSpace(b.interests))
		sb.WriteString("\n\n")
	}
	sb.WriteString("TODAY'S ARTICLES (pre-filtered to the last 24 hours, duplicates removed):\n")
	for i, article := range articles {
		fmt.Fprintf(&sb, "\n---\nArticle %d:\nSource: %s\nTitle: %s\nLink: %s\n",
			i+1, article.Source, article.Title, article.URL)
		if article.Summary != "" {
			fmt.Fprintf(&sb, "Summary: %s\n", article.Summary)
		}
	}
	return sb.String()
}
