package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"briefcast/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the sent-article ledger",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List articles recorded in the dedup ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			entries, err := store.Entries(cmd.Context())
			if err != nil {
				return fmt.Errorf("read history entries: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "History is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.FirstSeen.Format("2006-01-02"),
					entry.Source,
					truncate(entry.Title, 60),
					truncate(entry.URL, 70),
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"First Seen", "Source", "Title", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d entries\n", len(entries))
			return nil
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove ledger entries older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			window := time.Duration(cfg.Retention.HistoryDays) * 24 * time.Hour
			removed, err := store.Prune(cmd.Context(), time.Now(), window)
			if err != nil {
				return fmt.Errorf("prune history: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries older than %d days\n", removed, cfg.Retention.HistoryDays)
			return nil
		},
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
