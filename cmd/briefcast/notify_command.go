package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"briefcast/internal/logging"
	"briefcast/internal/mailer"
	"briefcast/internal/notify"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification email",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			sender, err := mailer.NewMailer(cfg.Email, logger)
			if err != nil {
				return fmt.Errorf("init mailer: %w", err)
			}

			if err := notify.NewService(sender).TestNotification(cmd.Context()); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
