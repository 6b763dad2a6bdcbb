package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"briefcast/internal/config"
	"briefcast/internal/voices"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "Show the host voice assignment for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			date := time.Now()
			if dateFlag != "" {
				parsed, err := time.Parse("2006-01-02", dateFlag)
				if err != nil {
					return fmt.Errorf("parse date %q: %w", dateFlag, err)
				}
				date = parsed
			}

			premium, err := voices.Assign(date, cfg.TTS.PremiumVoicesA, cfg.TTS.PremiumVoicesB, cfg.TTS.Pins)
			if err != nil {
				return fmt.Errorf("assign premium voices: %w", err)
			}
			fallback, err := voices.Assign(date, cfg.TTS.FallbackVoicesA, cfg.TTS.FallbackVoicesB, config.VoicePins{})
			if err != nil {
				return fmt.Errorf("assign fallback voices: %w", err)
			}

			rows := [][]string{
				{"Alex", describeVoice(premium.HostA, premium.PinnedA), describeVoice(fallback.HostA, false)},
				{"Sam", describeVoice(premium.HostB, premium.PinnedB), describeVoice(fallback.HostB, false)},
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Voice assignment for %s\n", premium.Date)
			fmt.Fprintln(out, renderTable(
				[]string{"Host", "Premium", "Fallback"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Date to inspect (YYYY-MM-DD, defaults to today)")
	return cmd
}

func describeVoice(voice config.Voice, pinned bool) string {
	label := voice.Name
	if label == "" {
		label = voice.ID
	} else if voice.ID != "" && voice.ID != voice.Name {
		label = fmt.Sprintf("%s (%s)", voice.Name, voice.ID)
	}
	if pinned {
		label += " [pinned]"
	}
	return label
}
