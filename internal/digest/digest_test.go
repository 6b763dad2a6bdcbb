package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"briefcast/internal/feeds"
	"briefcast/internal/logging"
)

type fakeCompleter struct {
	content string
	err     error
	system  string
	user    string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.user = userPrompt
	return f.content, f.err
}

const sampleHTML = `<h1>Daily Digest</h1>
<h2>🔥 Top Priority</h2>
<ul>
  <li><strong><a href="https://a.example/1">Model Breakthrough</a></strong> (Lab)<br>A big step.</li>
  <li><strong>Funding Round</strong> - startup raises.</li>
</ul>
<h2>Quick Hits</h2>
<ul><li><strong><a href="https://a.example/2">Minor Note</a></strong></li></ul>`

func testArticles() []feeds.Article {
	return []feeds.Article{
		{Source: "Lab", Title: "Model Breakthrough", URL: "https://a.example/1", Summary: "A big step."},
		{Source: "Wire", Title: "Funding Round", URL: "https://a.example/2"},
	}
}

func TestBuildReturnsDigestWithTopics(t *testing.T) {
	fake := &fakeCompleter{content: sampleHTML}
	builder := &Builder{client: fake, interests: "AI, robotics", readerName: "Casey", logger: logging.NewNop()}

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	got, err := builder.Build(context.Background(), date, testArticles())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(got.HTML, "<h1>Daily Digest</h1>") {
		t.Fatalf("unexpected digest HTML: %q", got.HTML)
	}
	want := []string{"Model Breakthrough", "Funding Round"}
	if len(got.Topics) != len(want) {
		t.Fatalf("topics = %v, want %v", got.Topics, want)
	}
	for i := range want {
		if got.Topics[i] != want[i] {
			t.Fatalf("topics = %v, want %v", got.Topics, want)
		}
	}
	if !strings.Contains(fake.user, "Casey") || !strings.Contains(fake.user, "AI, robotics") {
		t.Fatal("prompt should carry the reader name and interests")
	}
	if !strings.Contains(fake.user, "Article 2:") {
		t.Fatal("prompt should enumerate every article")
	}
}

func TestBuildStripsCodeFences(t *testing.T) {
	fake := &fakeCompleter{content: "```html\n<h1>Digest</h1>\n```"}
	builder := &Builder{client: fake, logger: logging.NewNop()}

	got, err := builder.Build(context.Background(), time.Now(), testArticles())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.HTML != "<h1>Digest</h1>" {
		t.Fatalf("expected fences stripped, got %q", got.HTML)
	}
}

func TestBuildPropagatesClientError(t *testing.T) {
	wantErr := errors.New("model offline")
	builder := &Builder{client: &fakeCompleter{err: wantErr}, logger: logging.NewNop()}

	if _, err := builder.Build(context.Background(), time.Now(), testArticles()); !errors.Is(err, wantErr) {
		t.Fatalf("expected client error in chain, got %v", err)
	}
}

func TestBuildRequiresArticles(t *testing.T) {
	builder := &Builder{client: &fakeCompleter{}, logger: logging.NewNop()}
	if _, err := builder.Build(context.Background(), time.Now(), nil); err == nil {
		t.Fatal("expected error for empty article list")
	}
}

func TestCleanMarkdownConvertsResidualSyntax(t *testing.T) {
	input := "## Top Priority\n- **Big Story** something happened\n- Another item"
	got := CleanMarkdown(input)
	for _, want := range []string{"<h2>Top Priority</h2>", "<li><strong>Big Story</strong> something happened</li>", "<li>Another item</li>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("CleanMarkdown output missing %q:\n%s", want, got)
		}
	}
}

func TestExtractTextFlattensDigest(t *testing.T) {
	text := ExtractText(sampleHTML + "<script>alert(1)</script>")
	if strings.Contains(text, "alert") {
		t.Fatal("script content must be removed")
	}
	for _, want := range []string{"Daily Digest", "Model Breakthrough", "A big step."} {
		if !strings.Contains(text, want) {
			t.Fatalf("plain text missing %q:\n%s", want, text)
		}
	}
}

func TestExtractTopicsFallsBackWithoutPrioritySection(t *testing.T) {
	html := `<ul>
<li><strong>One</strong></li><li><strong>Two</strong></li><li><strong>Three</strong></li>
<li><strong>Four</strong></li><li><strong>Five</strong></li><li><strong>Six</strong></li></ul>`
	topics := ExtractTopics(html)
	if len(topics) != maxTopics {
		t.Fatalf("expected %d topics, got %v", maxTopics, topics)
	}
	if topics[0] != "One" || topics[4] != "Five" {
		t.Fatalf("unexpected fallback topics: %v", topics)
	}
}
