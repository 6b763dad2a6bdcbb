package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"briefcast/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to add feed sources, SMTP credentials, and API keys before running briefcast.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Data directory", cfg.Paths.DataDir},
				{"Audio output directory", cfg.Paths.AudioOutputDir},
				{"Log directory", cfg.Paths.LogDir},
				{"Feed sources", strconv.Itoa(len(cfg.Feeds.Sources))},
				{"Max articles per feed", strconv.Itoa(cfg.Feeds.MaxPerFeed)},
				{"Recency window (hours)", strconv.Itoa(cfg.Feeds.RecencyHours)},
				{"Digest model", cfg.Digest.Model},
				{"Digest API key set", yesNo(cfg.Digest.APIKey != "")},
				{"Script model", cfg.Script.Model},
				{"Premium TTS key set", yesNo(cfg.TTS.PremiumAPIKey != "")},
				{"Fallback TTS endpoint", cfg.TTS.FallbackBaseURL},
				{"Podcast enabled", yesNo(cfg.PodcastEnabled())},
				{"Test mode", yesNo(cfg.Audio.TestMode)},
				{"SMTP host", fmt.Sprintf("%s:%d", cfg.Email.Host, cfg.Email.Port)},
				{"Email recipients", strconv.Itoa(len(cfg.Email.Recipients))},
				{"Library scan enabled", yesNo(cfg.Library.URL != "" && cfg.Library.LibraryID != "")},
				{"History retention (days)", strconv.Itoa(cfg.Retention.HistoryDays)},
				{"Audio retention (days)", strconv.Itoa(cfg.Retention.AudioDays)},
				{"Log retention (days)", strconv.Itoa(cfg.Retention.LogDays)},
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
