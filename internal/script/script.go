// Package script generates and parses the two-host podcast conversation.
package script

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"briefcast/internal/config"
	"briefcast/internal/llm"
	"briefcast/internal/logging"
)

// Speaker labels. Every script line is attributed to one of the two hosts.
const (
	SpeakerHostA = "Alex"
	SpeakerHostB = "Sam"
)

const (
	// Rough context budget: 1 token is about 4 characters, with headroom
	// reserved for the system prompt and the generated script.
	maxDigestChars     = 40000
	maxDigestCharsTest = 4000
)

// Segment is one host's turn in the conversation.
type Segment struct {
	Speaker string
	Text    string
}

// Completer is the chat capability the writer needs. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Writer produces a conversational script from digest text.
type Writer struct {
	client   Completer
	testMode bool
	logger   *slog.Logger
}

// NewWriter constructs a script writer from configuration.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.Script.APIKey,
		BaseURL:        cfg.Script.BaseURL,
		Model:          cfg.Script.Model,
		TimeoutSeconds: cfg.Script.TimeoutSeconds,
	})
	return &Writer{
		client:   client,
		testMode: cfg.Audio.TestMode,
		logger:   logging.NewComponentLogger(logger, "script"),
	}
}

// Write generates the script for the supplied digest text. In test mode the
// digest is truncated harder and the target duration drops to about two
// minutes.
func (w *Writer) Write(ctx context.Context, digestText string) (string, error) {
	digestText = strings.TrimSpace(digestText)
	if digestText == "" {
		return "", fmt.Errorf("script write: digest text is empty")
	}

	maxChars := maxDigestChars
	if w.testMode {
		maxChars = maxDigestCharsTest
	}
	if len(digestText) > maxChars {
		digestText = digestText[:maxChars] + "\n\n[Content truncated for length]"
		w.logger.Debug("digest text truncated", logging.Int("max_chars", maxChars))
	}

	raw, err := w.client.Complete(ctx, w.systemPrompt(), w.userPrompt(digestText))
	if err != nil {
		return "", fmt.Errorf("script write: %w", err)
	}
	script := strings.TrimSpace(raw)
	if script == "" {
		return "", fmt.Errorf("script write: model returned empty script")
	}
	w.logger.Info("script generated", logging.Int("chars", len(script)))
	return script, nil
}

func (w *Writer) systemPrompt() string {
	durationTarget := "15-20 minutes"
	if w.testMode {
		durationTarget = "about 2 minutes"
	}
	return fmt.Sprintf(`You are a podcast script writer. Write a natural, engaging conversation between two hosts discussing today's tech news digest.

HOSTS:
- %s (male): Enthusiastic about tech breakthroughs, gets excited about new developments, uses vivid analogies.
- %s (female): Analytical and thoughtful, asks probing follow-up questions, connects dots between stories.

RULES:
1. Open with a brief, energetic intro where both hosts greet the audience.
2. Cover the most interesting stories from the digest naturally, not just the headlines.
3. Use natural transitions between topics.
4. Maximum 2-3 consecutive lines from the same speaker before the other responds.
5. Include genuine reactions: surprise, humor, skepticism, excitement.
6. End with a quick recap of the top takeaway and a sign-off.
7. Target length: %s of spoken audio (roughly 150 words per minute).
8. Do NOT include stage directions, sound effects, or parenthetical notes.
9. Each line MUST start with exactly "%s:" or "%s:" followed by a space and their dialogue.
10. Keep individual lines to 1-3 sentences for natural pacing.

OUTPUT FORMAT:
Return ONLY the script. Each line must begin with the speaker label.`,
		SpeakerHostA, SpeakerHostB, durationTarget, SpeakerHostA, SpeakerHostB)
}

func (w *Writer) userPrompt(digestText string) string {
	return "Here is today's news digest. Write the podcast script based on this content:\n\n" + digestText
}

var speakerLineRe = regexp.MustCompile(`(?i)^(Alex|Sam)\s*:\s*(.+)$`)

// Parse splits a raw script into speaker turns. Unlabeled lines continue the
// current speaker's turn; leading unlabeled lines are discarded.
func Parse(script string) ([]Segment, error) {
	var segments []Segment
	var currentSpeaker string
	var currentLines []string

	flush := func() {
		if currentSpeaker != "" && len(currentLines) > 0 {
			segments = append(segments, Segment{
				Speaker: currentSpeaker,
				Text:    strings.Join(currentLines, " "),
			})
		}
		currentLines = nil
	}

	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if match := speakerLineRe.FindStringSubmatch(line); match != nil {
			flush()
			currentSpeaker = canonicalSpeaker(match[1])
			currentLines = []string{strings.TrimSpace(match[2])}
			continue
		}
		if currentSpeaker != "" {
			currentLines = append(currentLines, line)
		}
	}
	flush()

	if len(segments) == 0 {
		return nil, fmt.Errorf("script parse: no speaker segments found, expected lines starting with %q or %q",
			SpeakerHostA+":", SpeakerHostB+":")
	}
	return segments, nil
}

func canonicalSpeaker(label string) string {
	if strings.EqualFold(label, SpeakerHostA) {
		return SpeakerHostA
	}
	return SpeakerHostB
}
