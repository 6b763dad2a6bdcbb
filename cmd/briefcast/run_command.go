package main

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"briefcast/internal/audio"
	"briefcast/internal/deps"
	"briefcast/internal/digest"
	"briefcast/internal/feeds"
	"briefcast/internal/library"
	"briefcast/internal/logging"
	"briefcast/internal/mailer"
	"briefcast/internal/notify"
	"briefcast/internal/pipeline"
	"briefcast/internal/retention"
	"briefcast/internal/script"
	"briefcast/internal/tts"
	"briefcast/internal/voices"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch feeds, send the digest email, and produce the podcast episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "briefcast.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another briefcast run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			runID := uuid.NewString()
			logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("briefcast-%s.log", runID))
			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", logPath},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger = logger.With(logging.String(logging.FieldRunID, runID))

			logging.CleanupOldLogs(logger, cfg.Retention.LogDays, logging.RetentionTarget{
				Dir:     cfg.Paths.LogDir,
				Pattern: "briefcast-*.log",
				Exclude: []string{logPath},
			})

			// A missing ffmpeg degrades the run to email-only later; flag it
			// up front so the operator sees why.
			if missing := deps.MissingRequired(deps.CheckBinaries(deps.Requirements(cfg))); len(missing) > 0 {
				logger.Warn("required external binaries missing, podcast stages will fail",
					logging.Any("missing", missing),
				)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			ledger := pipeline.OpenLedger(cfg.HistoryDBPath(), logger)
			defer func() {
				if closer, ok := ledger.(io.Closer); ok {
					_ = closer.Close()
				}
			}()

			sender, err := mailer.NewMailer(cfg.Email, logger)
			if err != nil {
				return fmt.Errorf("init mailer: %w", err)
			}

			deps := pipeline.Deps{
				Fetcher: feeds.NewFetcher(cfg, logger),
				Ledger:  ledger,
				Digest:  digest.NewBuilder(cfg, logger),
				Script:  script.NewWriter(cfg, logger),
				NewSynthesizer: func(premium, fallback voices.Assignment) pipeline.Synthesizer {
					return tts.NewAdapter(cfg, premium, fallback, logger)
				},
				Assembler: audio.NewAssembler(cfg, logger),
				Library:   library.NewClient(cfg.Library, logger),
				Mailer:    sender,
				Sweeper:   retention.NewSweeper(cfg.Paths.AudioOutputDir, cfg.Retention.AudioDays, logger),
				Notifier:  notify.NewService(sender),
			}

			outcome := pipeline.NewOrchestrator(cfg, deps, logger).Run(signalCtx)

			out := cmd.OutOrStdout()
			switch outcome.Status {
			case pipeline.StatusSuccess:
				if outcome.Artifact != nil {
					fmt.Fprintf(out, "Digest sent; episode written to %s (%s)\n",
						outcome.Artifact.Path, outcome.Artifact.Duration.Round(time.Second))
				} else {
					fmt.Fprintln(out, "Digest sent")
				}
				return nil
			case pipeline.StatusNoNewArticles:
				fmt.Fprintln(out, "No new articles since the last digest; nothing sent")
				return nil
			case pipeline.StatusEmailOnly:
				fmt.Fprintf(out, "Digest sent, but podcast production failed at %s: %v\n",
					outcome.State, outcome.Err)
				return nil
			default:
				return fmt.Errorf("run failed at %s (%s): %w", outcome.State, outcome.Kind, outcome.Err)
			}
		},
	}
}
