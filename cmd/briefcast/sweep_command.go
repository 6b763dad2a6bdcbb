package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"briefcast/internal/logging"
	"briefcast/internal/retention"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete podcast episodes older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.PodcastEnabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "No audio output directory configured; nothing to sweep")
				return nil
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			sweeper := retention.NewSweeper(cfg.Paths.AudioOutputDir, cfg.Retention.AudioDays, logger)
			removed, err := sweeper.Sweep(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("sweep audio artifacts: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d episodes older than %d days\n", removed, cfg.Retention.AudioDays)
			return nil
		},
	}
}
