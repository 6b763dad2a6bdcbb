// Package retention removes aged episode artifacts from the output
// directory. Only date-stamped digest files are considered; nothing else in
// the directory is ever touched.
package retention

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"briefcast/internal/logging"
)

const artifactGlob = "digest-*.mp3"

// Sweeper deletes episode files older than the configured age.
type Sweeper struct {
	dir    string
	maxAge time.Duration
	logger *slog.Logger
}

// NewSweeper builds a sweeper for the given output directory. maxAgeDays of
// zero or less disables the sweep.
func NewSweeper(dir string, maxAgeDays int, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		dir:    dir,
		maxAge: time.Duration(maxAgeDays) * 24 * time.Hour,
		logger: logging.NewComponentLogger(logger, "retention"),
	}
}

// Sweep removes artifacts dated before now minus the retention window.
// Today's file is always kept, individual delete failures are logged and
// skipped, and a missing directory is not an error.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	if s.maxAge <= 0 || s.dir == "" {
		return 0, nil
	}
	if info, err := os.Stat(s.dir); err != nil || !info.IsDir() {
		return 0, nil
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, artifactGlob))
	if err != nil {
		return 0, err
	}

	today := now.Format("2006-01-02")
	cutoff := now.Add(-s.maxAge)
	removed := 0
	for _, path := range matches {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		name := filepath.Base(path)
		if strings.Contains(name, today) {
			continue
		}
		fileDate, ok := artifactDate(name)
		if !ok {
			s.logger.Warn("unparseable artifact name, skipping", logging.String("file", name))
			continue
		}
		if !fileDate.Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to delete old artifact",
				logging.String("file", name),
				logging.Error(err),
			)
			continue
		}
		removed++
		s.logger.Info("deleted old artifact", logging.String("file", name))
	}
	return removed, nil
}

func artifactDate(name string) (time.Time, bool) {
	stem := strings.TrimSuffix(strings.TrimPrefix(name, "digest-"), ".mp3")
	date, err := time.Parse("2006-01-02", stem)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
