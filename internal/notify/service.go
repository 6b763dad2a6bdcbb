// Package notify surfaces run outcomes to the operator. Notifications are
// best-effort by contract: delivery failures are logged by callers, never
// escalated.
package notify

import (
	"context"
	"time"

	"briefcast/internal/failure"
)

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyRunFailed(ctx context.Context, kind failure.Kind, message, detail string) error
	NotifyNoNewArticles(ctx context.Context) error
	NotifyEmailOnly(ctx context.Context, kind failure.Kind, message string) error
	TestNotification(ctx context.Context) error
}

// FailureMailer is the slice of the mailer the service depends on.
type FailureMailer interface {
	SendFailure(ctx context.Context, kind failure.Kind, message, detail string, when time.Time) error
}

// NewService builds a mail-backed notification service. When no mailer is
// available (for example when email itself is the failing component), a noop
// implementation is returned.
func NewService(mailer FailureMailer) Service {
	if mailer == nil {
		return noopService{}
	}
	return &mailService{mailer: mailer, now: time.Now}
}

type mailService struct {
	mailer FailureMailer
	now    func() time.Time
}

func (s *mailService) NotifyRunFailed(ctx context.Context, kind failure.Kind, message, detail string) error {
	return s.mailer.SendFailure(ctx, kind, message, detail, s.now())
}

func (s *mailService) NotifyNoNewArticles(ctx context.Context) error {
	return s.mailer.SendFailure(ctx, failure.KindNoNewArticles,
		"Every fetched article was already sent in a previous digest. No email was sent today.", "", s.now())
}

func (s *mailService) NotifyEmailOnly(ctx context.Context, kind failure.Kind, message string) error {
	return s.mailer.SendFailure(ctx, kind,
		"The digest email was delivered, but podcast production failed: "+message, "", s.now())
}

func (s *mailService) TestNotification(ctx context.Context) error {
	return s.mailer.SendFailure(ctx, failure.KindNone,
		"This is a test notification. Delivery is working.", "", s.now())
}

type noopService struct{}

func (noopService) NotifyRunFailed(context.Context, failure.Kind, string, string) error { return nil }
func (noopService) NotifyNoNewArticles(context.Context) error                           { return nil }
func (noopService) NotifyEmailOnly(context.Context, failure.Kind, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
