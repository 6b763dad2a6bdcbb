package tts

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"briefcast/internal/config"
	"briefcast/internal/failure"
	"briefcast/internal/logging"
	"briefcast/internal/script"
	"briefcast/internal/voices"
)

const defaultConcurrency = 3

// VoicePair maps one speaker to a voice in each backend's namespace. Premium
// voice IDs do not exist in the fallback backend, so both are resolved up
// front from the day's assignments.
type VoicePair struct {
	Premium  string
	Fallback string
}

// Adapter synthesizes script segments, trying the premium backend first and
// retrying each failed segment against the fallback.
type Adapter struct {
	premium     Backend
	fallback    Backend
	pairs       map[string]VoicePair
	defaultPair VoicePair
	concurrency int
	logger      *slog.Logger
}

// NewAdapter wires the configured backends to the day's voice assignments.
// The premium backend is skipped entirely when no API key is configured.
func NewAdapter(cfg *config.Config, premium, fallback voices.Assignment, logger *slog.Logger) *Adapter {
	adapter := &Adapter{
		fallback: NewFallbackClient(cfg.TTS),
		pairs: map[string]VoicePair{
			script.SpeakerHostA: {Premium: premium.HostA.ID, Fallback: fallback.HostA.ID},
			script.SpeakerHostB: {Premium: premium.HostB.ID, Fallback: fallback.HostB.ID},
		},
		defaultPair: VoicePair{Premium: premium.HostA.ID, Fallback: fallback.HostA.ID},
		concurrency: defaultConcurrency,
		logger:      logging.NewComponentLogger(logger, "tts"),
	}
	if cfg.TTS.PremiumAPIKey != "" {
		adapter.premium = NewPremiumClient(cfg.TTS)
	}
	return adapter
}

// SynthesizeScript renders every segment, preserving script order. A segment
// that fails on both backends fails the whole call; partial audio is never
// returned.
func (a *Adapter) SynthesizeScript(ctx context.Context, segments []script.Segment) ([]Result, error) {
	if len(segments) == 0 {
		return nil, failure.Wrap(failure.ErrSynthesisUnavailable, "synthesis", "", "no segments to synthesize", nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, len(segments))
	errs := make([]error, len(segments))
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup
	for i, segment := range segments {
		wg.Add(1)
		go func(i int, segment script.Segment) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			results[i], errs[i] = a.synthesizeSegment(ctx, i, segment)
			if errs[i] != nil {
				cancel()
			}
		}(i, segment)
	}
	wg.Wait()

	// Prefer the error that triggered cancellation over the cancellations
	// it caused in other goroutines.
	var firstErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		if !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (a *Adapter) synthesizeSegment(ctx context.Context, index int, segment script.Segment) (Result, error) {
	pair := a.voicePair(segment.Speaker)

	if a.premium != nil {
		audio, err := a.premium.Synthesize(ctx, segment.Text, pair.Premium)
		if err == nil {
			return Result{Index: index, Speaker: segment.Speaker, Backend: a.premium.Name(), MP3: audio}, nil
		}
		a.logger.Warn("premium synthesis failed, trying fallback",
			logging.Int(logging.FieldSegment, index),
			logging.String(logging.FieldSpeaker, segment.Speaker),
			logging.Error(err),
		)
	}

	audio, err := a.fallback.Synthesize(ctx, segment.Text, pair.Fallback)
	if err != nil {
		return Result{}, failure.Wrap(failure.ErrSynthesisUnavailable,
			"synthesis", segment.Speaker, "all backends failed", err)
	}
	return Result{Index: index, Speaker: segment.Speaker, Backend: a.fallback.Name(), MP3: audio}, nil
}

func (a *Adapter) voicePair(speaker string) VoicePair {
	if pair, ok := a.pairs[speaker]; ok {
		return pair
	}
	return a.defaultPair
}
