// Package pipeline sequences one digest run: fetch, dedupe, select, email,
// and the best-effort podcast stages behind it. The orchestrator owns all
// cross-component sequencing; the components never call each other.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"briefcast/internal/audio"
	"briefcast/internal/config"
	"briefcast/internal/digest"
	"briefcast/internal/failure"
	"briefcast/internal/feeds"
	"briefcast/internal/history"
	"briefcast/internal/logging"
	"briefcast/internal/notify"
	"briefcast/internal/script"
	"briefcast/internal/tts"
	"briefcast/internal/voices"
)

// State names the stage a run is in. Outcomes carry the furthest state
// reached.
type State string

const (
	StateFetching            State = "Fetching"
	StateDeduping            State = "Deduping"
	StateSelecting           State = "Selecting"
	StateEmailSending        State = "EmailSending"
	StatePodcastScripting    State = "PodcastScripting"
	StatePodcastSynthesizing State = "PodcastSynthesizing"
	StatePodcastAssembling   State = "PodcastAssembling"
	StateLibraryScanning     State = "LibraryScanning"
	StateRetentionSweeping   State = "RetentionSweeping"
	StateDone                State = "Done"
)

// Status is the terminal result of a run.
type Status string

const (
	StatusSuccess       Status = "Success"
	StatusEmailOnly     Status = "EmailOnly"
	StatusNoNewArticles Status = "NoNewArticles"
	StatusFailed        Status = "Failed"
)

// Outcome is the terminal record of one run.
type Outcome struct {
	Status   Status
	State    State
	Kind     failure.Kind
	Err      error
	Artifact *audio.Artifact
}

// Collaborator contracts. Concrete implementations live in their own
// packages; the orchestrator depends only on these slices so tests can swap
// in fakes.
type (
	Fetcher interface {
		FetchAll(ctx context.Context) ([]feeds.Article, error)
	}
	DigestBuilder interface {
		Build(ctx context.Context, date time.Time, articles []feeds.Article) (digest.Digest, error)
	}
	ScriptWriter interface {
		Write(ctx context.Context, digestText string) (string, error)
	}
	Synthesizer interface {
		SynthesizeScript(ctx context.Context, segments []script.Segment) ([]tts.Result, error)
	}
	// SynthesizerFactory binds the day's voice assignments to a synthesizer.
	SynthesizerFactory func(premium, fallback voices.Assignment) Synthesizer
	Assembler          interface {
		Assemble(ctx context.Context, date time.Time, segments []tts.Result) (audio.Artifact, error)
	}
	LibraryScanner interface {
		Enabled() bool
		Scan(ctx context.Context) error
		PodcastURL() string
	}
	DigestMailer interface {
		SendDigest(ctx context.Context, date time.Time, digestHTML, podcastURL string, topics []string) error
	}
	Sweeper interface {
		Sweep(ctx context.Context, now time.Time) (int, error)
	}
)

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	Fetcher        Fetcher
	Ledger         history.Ledger
	Digest         DigestBuilder
	Script         ScriptWriter
	NewSynthesizer SynthesizerFactory
	Assembler      Assembler
	Library        LibraryScanner
	Mailer         DigestMailer
	Sweeper        Sweeper
	Notifier       notify.Service
}

// Orchestrator drives the run state machine.
type Orchestrator struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
	now    func() time.Time
}

// NewOrchestrator builds an orchestrator. A nil notifier is replaced with
// the noop service.
func NewOrchestrator(cfg *config.Config, deps Deps, logger *slog.Logger) *Orchestrator {
	if deps.Notifier == nil {
		deps.Notifier = notify.NewService(nil)
	}
	return &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
	}
}

// Run executes one full digest run and dispatches at most one best-effort
// notification for the outcome.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	outcome := o.run(ctx)
	o.notifyOutcome(ctx, outcome)
	o.logger.Info("run finished",
		logging.String("status", string(outcome.Status)),
		logging.String(logging.FieldStage, string(outcome.State)),
		logging.String("failure_kind", string(outcome.Kind)),
	)
	return outcome
}

func (o *Orchestrator) run(ctx context.Context) Outcome {
	date := o.now()

	articles, err := o.deps.Fetcher.FetchAll(ctx)
	if err != nil {
		return o.fatal(StateFetching, err)
	}
	o.logger.Info("articles fetched", logging.Int("count", len(articles)))

	fresh := o.dedupe(ctx, date, articles)
	if len(fresh) == 0 {
		o.logger.Info("every article was already sent, nothing to do")
		return Outcome{Status: StatusNoNewArticles, State: StateDeduping, Kind: failure.KindNoNewArticles}
	}

	dg, err := o.deps.Digest.Build(ctx, date, fresh)
	if err != nil {
		return o.fatal(StateSelecting, err)
	}

	podcastURL := ""
	if o.cfg.PodcastEnabled() && o.deps.Library != nil && o.deps.Library.Enabled() {
		podcastURL = o.deps.Library.PodcastURL()
	}
	if err := o.deps.Mailer.SendDigest(ctx, date, dg.HTML, podcastURL, dg.Topics); err != nil {
		return o.fatal(StateEmailSending, err)
	}

	// The email is out; only now do the fingerprints become history.
	o.recordHistory(ctx, date, fresh)

	if !o.cfg.PodcastEnabled() {
		return Outcome{Status: StatusSuccess, State: StateDone}
	}
	return o.producePodcast(ctx, date, dg)
}

// dedupe prunes expired history and filters out previously sent articles.
// An unreadable ledger entry degrades to treating the article as new rather
// than failing the run.
func (o *Orchestrator) dedupe(ctx context.Context, date time.Time, articles []feeds.Article) []feeds.Article {
	window := time.Duration(o.cfg.Retention.HistoryDays) * 24 * time.Hour
	if removed, err := o.deps.Ledger.Prune(ctx, date, window); err != nil {
		o.logger.Warn("history prune failed", logging.Error(err))
	} else if removed > 0 {
		o.logger.Info("history pruned", logging.Int64("removed", removed))
	}

	fresh := make([]feeds.Article, 0, len(articles))
	for _, article := range articles {
		seen, err := o.deps.Ledger.Contains(ctx, article.Fingerprint())
		if err != nil {
			o.logger.Warn("history lookup failed, treating article as new",
				logging.String("url", article.URL),
				logging.Error(err),
			)
			seen = false
		}
		if !seen {
			fresh = append(fresh, article)
		}
	}
	o.logger.Info("articles deduplicated",
		logging.Int("fetched", len(articles)),
		logging.Int("new", len(fresh)),
	)
	return fresh
}

func (o *Orchestrator) recordHistory(ctx context.Context, date time.Time, articles []feeds.Article) {
	for _, article := range articles {
		entry := history.Entry{
			Fingerprint: article.Fingerprint(),
			Title:       article.Title,
			URL:         article.URL,
			Source:      article.Source,
			FirstSeen:   date,
		}
		if err := o.deps.Ledger.Record(ctx, entry); err != nil {
			o.logger.Warn("failed to record history entry",
				logging.String("url", article.URL),
				logging.Error(err),
			)
		}
	}
}

// producePodcast runs the best-effort stages behind the email. Any failure
// here degrades the run to EmailOnly; nothing rolls back or retries the
// already-sent email.
func (o *Orchestrator) producePodcast(ctx context.Context, date time.Time, dg digest.Digest) Outcome {
	raw, err := o.deps.Script.Write(ctx, digest.ExtractText(dg.HTML))
	if err != nil {
		return o.emailOnly(StatePodcastScripting, err)
	}
	segments, err := script.Parse(raw)
	if err != nil {
		return o.emailOnly(StatePodcastScripting, err)
	}

	premium, err := voices.Assign(date, o.cfg.TTS.PremiumVoicesA, o.cfg.TTS.PremiumVoicesB, o.cfg.TTS.Pins)
	if err != nil {
		return o.emailOnly(StatePodcastSynthesizing, err)
	}
	// Fallback voices always rotate; pins name premium IDs only.
	fallback, err := voices.Assign(date, o.cfg.TTS.FallbackVoicesA, o.cfg.TTS.FallbackVoicesB, config.VoicePins{})
	if err != nil {
		return o.emailOnly(StatePodcastSynthesizing, err)
	}
	o.logger.Info("voices assigned",
		logging.String("host_a", premium.HostA.Name),
		logging.String("host_b", premium.HostB.Name),
	)

	results, err := o.deps.NewSynthesizer(premium, fallback).SynthesizeScript(ctx, segments)
	if err != nil {
		return o.emailOnly(StatePodcastSynthesizing, err)
	}

	artifact, err := o.deps.Assembler.Assemble(ctx, date, results)
	if err != nil {
		o.sweep(ctx, date)
		return o.emailOnly(StatePodcastAssembling, err)
	}

	if o.deps.Library != nil && o.deps.Library.Enabled() {
		if err := o.deps.Library.Scan(ctx); err != nil {
			o.sweep(ctx, date)
			outcome := o.emailOnly(StateLibraryScanning, err)
			outcome.Artifact = &artifact
			return outcome
		}
	}

	o.sweep(ctx, date)
	return Outcome{Status: StatusSuccess, State: StateDone, Artifact: &artifact}
}

// sweep runs retention unconditionally once an artifact write was attempted.
// Sweep problems are logged, never escalated.
func (o *Orchestrator) sweep(ctx context.Context, now time.Time) {
	if o.deps.Sweeper == nil {
		return
	}
	if removed, err := o.deps.Sweeper.Sweep(ctx, now); err != nil {
		o.logger.Warn("retention sweep failed", logging.Error(err))
	} else if removed > 0 {
		o.logger.Info("retention sweep removed artifacts", logging.Int("removed", removed))
	}
}

func (o *Orchestrator) fatal(state State, err error) Outcome {
	kind := failure.Classify(err)
	o.logger.Error("run failed",
		logging.String(logging.FieldStage, string(state)),
		logging.String("failure_kind", string(kind)),
		logging.Error(err),
	)
	return Outcome{Status: StatusFailed, State: state, Kind: kind, Err: err}
}

func (o *Orchestrator) emailOnly(state State, err error) Outcome {
	kind := failure.Classify(err)
	o.logger.Warn("podcast stage failed, email already delivered",
		logging.String(logging.FieldStage, string(state)),
		logging.String("failure_kind", string(kind)),
		logging.Error(err),
	)
	return Outcome{Status: StatusEmailOnly, State: state, Kind: kind, Err: err}
}

func (o *Orchestrator) notifyOutcome(ctx context.Context, outcome Outcome) {
	var err error
	switch outcome.Status {
	case StatusFailed:
		err = o.deps.Notifier.NotifyRunFailed(ctx, outcome.Kind, errorMessage(outcome.Err), "")
	case StatusNoNewArticles:
		err = o.deps.Notifier.NotifyNoNewArticles(ctx)
	case StatusEmailOnly:
		err = o.deps.Notifier.NotifyEmailOnly(ctx, outcome.Kind, errorMessage(outcome.Err))
	default:
		return
	}
	if err != nil {
		o.logger.Warn("outcome notification failed", logging.Error(err))
	}
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
