package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers. Wrap tags errors with one of these so the orchestrator
// can classify a failure without inspecting collaborator internals.
var (
	ErrFeedFetch             = errors.New("feed fetch error")
	ErrQuotaExhausted        = errors.New("quota exhausted")
	ErrRateLimited           = errors.New("rate limited")
	ErrAuthFailed            = errors.New("authentication failed")
	ErrNoNewArticles         = errors.New("no new articles")
	ErrEmailDelivery         = errors.New("email delivery failed")
	ErrSynthesisUnavailable  = errors.New("audio synthesis unavailable")
	ErrAssemblyFailed        = errors.New("audio assembly failed")
	ErrLibraryScan           = errors.New("library scan failed")
	ErrInsufficientVoicePool = errors.New("insufficient voice pool")
)

// Kind is the fixed failure taxonomy surfaced in run outcomes and
// notifications.
type Kind string

const (
	KindNone                  Kind = ""
	KindFeedFetch             Kind = "FeedFetchError"
	KindQuotaExhausted        Kind = "QuotaExhausted"
	KindRateLimited           Kind = "RateLimited"
	KindAuthFailed            Kind = "AuthFailed"
	KindNoNewArticles         Kind = "NoNewArticles"
	KindEmailDelivery         Kind = "EmailDeliveryFailed"
	KindSynthesisUnavailable  Kind = "AudioSynthesisUnavailable"
	KindAssemblyFailed        Kind = "AudioAssemblyFailed"
	KindLibraryScan           Kind = "LibraryScanFailed"
	KindInsufficientVoicePool Kind = "InsufficientVoicePool"
	KindUnexpected            Kind = "UnexpectedError"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its taxonomy kind. Unknown errors are fatal
// UnexpectedError by policy.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrFeedFetch):
		return KindFeedFetch
	case errors.Is(err, ErrQuotaExhausted):
		return KindQuotaExhausted
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrAuthFailed):
		return KindAuthFailed
	case errors.Is(err, ErrNoNewArticles):
		return KindNoNewArticles
	case errors.Is(err, ErrEmailDelivery):
		return KindEmailDelivery
	case errors.Is(err, ErrInsufficientVoicePool):
		return KindInsufficientVoicePool
	case errors.Is(err, ErrSynthesisUnavailable):
		return KindSynthesisUnavailable
	case errors.Is(err, ErrAssemblyFailed):
		return KindAssemblyFailed
	case errors.Is(err, ErrLibraryScan):
		return KindLibraryScan
	default:
		return KindUnexpected
	}
}

// Degradable reports whether a failure of this kind ends only the podcast
// stage. The email already went out; the run still completes as EmailOnly.
func (k Kind) Degradable() bool {
	switch k {
	case KindSynthesisUnavailable, KindAssemblyFailed, KindLibraryScan, KindInsufficientVoicePool:
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
