// Package mailer delivers the digest and failure notifications over SMTP.
package mailer

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"briefcast/internal/config"
	"briefcast/internal/failure"
	"briefcast/internal/logging"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const plainTextFallback = "Your daily news digest is ready. Please view this email in an HTML-capable client."

// Mailer sends multipart digest and notification emails.
type Mailer struct {
	cfg    config.Email
	logger *slog.Logger

	// send is swappable in tests so no SMTP server is needed.
	send func(ctx context.Context, msg *mail.Msg) error
}

// NewMailer builds a mailer from email configuration. Port 465 uses implicit
// TLS; anything else negotiates STARTTLS.
func NewMailer(cfg config.Email, logger *slog.Logger) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: create client: %w", err)
	}
	return &Mailer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "mailer"),
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}, nil
}

type digestData struct {
	Content    template.HTML
	PodcastURL string
	Topics     []string
}

// SendDigest delivers the digest HTML to every configured recipient. When a
// podcast URL is supplied the email carries a listen link and topic list.
func (m *Mailer) SendDigest(ctx context.Context, date time.Time, digestHTML, podcastURL string, topics []string) error {
	html, err := m.renderDigest(digestHTML, podcastURL, topics)
	if err != nil {
		return failure.Wrap(failure.ErrEmailDelivery, "email", "render", "", err)
	}

	subject := fmt.Sprintf("📰 Daily News Digest - %s", date.Format("Monday, January 2, 2006"))
	msg, err := m.newMessage(subject, html)
	if err != nil {
		return failure.Wrap(failure.ErrEmailDelivery, "email", "compose", "", err)
	}
	if err := m.send(ctx, msg); err != nil {
		return failure.Wrap(failure.ErrEmailDelivery, "email", "send", "", err)
	}
	m.logger.Info("digest email sent",
		logging.Int("recipients", len(m.cfg.Recipients)),
		logging.Bool("podcast_link", podcastURL != ""),
	)
	return nil
}

type failureData struct {
	Kind    string
	Message string
	When    string
	Hint    string
	Detail  string
}

// SendFailure delivers a failure notification. Errors are returned but the
// caller treats delivery as best-effort.
func (m *Mailer) SendFailure(ctx context.Context, kind failure.Kind, message, detail string, when time.Time) error {
	var body strings.Builder
	data := failureData{
		Kind:    string(kind),
		Message: message,
		When:    when.Format(time.RFC1123),
		Hint:    failureHint(kind),
		Detail:  detail,
	}
	if err := emailTemplates.ExecuteTemplate(&body, "failure_email.html.tmpl", data); err != nil {
		return fmt.Errorf("mailer: render failure email: %w", err)
	}

	subject := fmt.Sprintf("⚠️ News Digest Failed - %s - %s", kind, when.Format("Monday, January 2, 2006"))
	msg, err := m.newMessage(subject, body.String())
	if err != nil {
		return fmt.Errorf("mailer: compose failure email: %w", err)
	}
	return m.send(ctx, msg)
}

func (m *Mailer) renderDigest(digestHTML, podcastURL string, topics []string) (string, error) {
	trimmed := strings.TrimSpace(digestHTML)
	// Full documents from the model are passed through untouched; fragments
	// get wrapped in the styled shell.
	if strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html") {
		return trimmed, nil
	}
	var body strings.Builder
	data := digestData{
		Content:    template.HTML(trimmed), //nolint:gosec
		PodcastURL: podcastURL,
		Topics:     topics,
	}
	if err := emailTemplates.ExecuteTemplate(&body, "digest_email.html.tmpl", data); err != nil {
		return "", err
	}
	return body.String(), nil
}

func (m *Mailer) newMessage(subject, html string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat("News Digest", m.cfg.From); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(m.cfg.Recipients...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, plainTextFallback)
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

func failureHint(kind failure.Kind) string {
	switch kind {
	case failure.KindQuotaExhausted, failure.KindRateLimited:
		return "Check the API plan's remaining credits and rate limits."
	case failure.KindAuthFailed:
		return "Verify the configured API keys and SMTP credentials."
	case failure.KindFeedFetch:
		return "One or more feed sources may be down; check the source URLs."
	default:
		return ""
	}
}
