package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/go-mail"

	"briefcast/internal/config"
	"briefcast/internal/failure"
	"briefcast/internal/logging"
)

func newTestMailer(t *testing.T) (*Mailer, *[]*mail.Msg) {
	t.Helper()
	var sent []*mail.Msg
	m := &Mailer{
		cfg: config.Email{
			From:       "digest@example.com",
			Recipients: []string{"reader@example.com", "second@example.com"},
		},
		logger: logging.NewNop(),
		send: func(_ context.Context, msg *mail.Msg) error {
			sent = append(sent, msg)
			return nil
		},
	}
	return m, &sent
}

func messageHTML(t *testing.T, msg *mail.Msg) string {
	t.Helper()
	var sb strings.Builder
	if _, err := msg.WriteTo(&sb); err != nil {
		t.Fatalf("render message: %v", err)
	}
	return sb.String()
}

func TestSendDigestWrapsFragmentWithPodcastSection(t *testing.T) {
	m, sent := newTestMailer(t)
	date := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	err := m.SendDigest(context.Background(), date, "<h1>Digest</h1>",
		"https://books.example/pod", []string{"Topic One", "Topic Two"})
	if err != nil {
		t.Fatalf("SendDigest failed: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(*sent))
	}
	subject := (*sent)[0].GetGenHeader(mail.HeaderSubject)
	if len(subject) != 1 || !strings.Contains(subject[0], "September 1, 2026") {
		t.Fatalf("unexpected subject %v", subject)
	}
	raw := messageHTML(t, (*sent)[0])
	for _, want := range []string{"Topic One", "books.example/pod", "<h1>Digest</h1>"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q", want)
		}
	}
}

func TestSendDigestOmitsPodcastSectionWithoutURL(t *testing.T) {
	m, sent := newTestMailer(t)

	if err := m.SendDigest(context.Background(), time.Now(), "<h1>Digest</h1>", "", nil); err != nil {
		t.Fatalf("SendDigest failed: %v", err)
	}
	if raw := messageHTML(t, (*sent)[0]); strings.Contains(raw, "Daily News Podcast") {
		t.Fatal("podcast section should be absent without a URL")
	}
}

func TestSendDigestPassesThroughFullDocument(t *testing.T) {
	m, _ := newTestMailer(t)
	html, err := m.renderDigest("<!DOCTYPE html><html><body>done</body></html>", "", nil)
	if err != nil {
		t.Fatalf("renderDigest failed: %v", err)
	}
	if strings.Count(html, "<!DOCTYPE") != 1 {
		t.Fatal("full documents must not be wrapped again")
	}
}

func TestSendDigestClassifiesTransportFailure(t *testing.T) {
	m, _ := newTestMailer(t)
	m.send = func(context.Context, *mail.Msg) error { return errors.New("connection refused") }

	err := m.SendDigest(context.Background(), time.Now(), "<h1>x</h1>", "", nil)
	if !errors.Is(err, failure.ErrEmailDelivery) {
		t.Fatalf("expected email delivery failure, got %v", err)
	}
	if failure.Classify(err) != failure.KindEmailDelivery {
		t.Fatalf("unexpected classification %q", failure.Classify(err))
	}
}

func TestSendFailureIncludesKindAndHint(t *testing.T) {
	m, sent := newTestMailer(t)
	when := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	err := m.SendFailure(context.Background(), failure.KindQuotaExhausted,
		"digest selection failed", "stack detail", when)
	if err != nil {
		t.Fatalf("SendFailure failed: %v", err)
	}
	raw := messageHTML(t, (*sent)[0])
	for _, want := range []string{"QuotaExhausted", "digest selection failed", "remaining credits", "stack detail"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("failure message missing %q", want)
		}
	}
}
