package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"briefcast/internal/failure"
)

type recordingMailer struct {
	kind    failure.Kind
	message string
	detail  string
	calls   int
}

func (r *recordingMailer) SendFailure(_ context.Context, kind failure.Kind, message, detail string, _ time.Time) error {
	r.kind = kind
	r.message = message
	r.detail = detail
	r.calls++
	return nil
}

func TestNewServiceWithoutMailerIsNoop(t *testing.T) {
	service := NewService(nil)
	if err := service.NotifyRunFailed(context.Background(), failure.KindUnexpected, "boom", ""); err != nil {
		t.Fatalf("noop notify returned error: %v", err)
	}
	if err := service.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop test notification returned error: %v", err)
	}
}

func TestNotifyRunFailedForwardsDetails(t *testing.T) {
	mailer := &recordingMailer{}
	service := NewService(mailer)

	if err := service.NotifyRunFailed(context.Background(), failure.KindAuthFailed, "api key rejected", "trace"); err != nil {
		t.Fatalf("NotifyRunFailed failed: %v", err)
	}
	if mailer.kind != failure.KindAuthFailed || mailer.message != "api key rejected" || mailer.detail != "trace" {
		t.Fatalf("unexpected forwarded payload: %#v", mailer)
	}
}

func TestNotifyNoNewArticlesUsesTaxonomyKind(t *testing.T) {
	mailer := &recordingMailer{}
	service := NewService(mailer)

	if err := service.NotifyNoNewArticles(context.Background()); err != nil {
		t.Fatalf("NotifyNoNewArticles failed: %v", err)
	}
	if mailer.kind != failure.KindNoNewArticles {
		t.Fatalf("expected NoNewArticles kind, got %q", mailer.kind)
	}
}

func TestNotifyEmailOnlyMentionsDeliveredEmail(t *testing.T) {
	mailer := &recordingMailer{}
	service := NewService(mailer)

	if err := service.NotifyEmailOnly(context.Background(), failure.KindAssemblyFailed, "encoder missing"); err != nil {
		t.Fatalf("NotifyEmailOnly failed: %v", err)
	}
	if mailer.kind != failure.KindAssemblyFailed {
		t.Fatalf("expected assembly kind, got %q", mailer.kind)
	}
	if !strings.Contains(mailer.message, "email was delivered") || !strings.Contains(mailer.message, "encoder missing") {
		t.Fatalf("unexpected message %q", mailer.message)
	}
}
