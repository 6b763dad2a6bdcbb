package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Entry is one delivered-article record in the ledger.
type Entry struct {
	Fingerprint string
	Title       string
	URL         string
	Source      string
	FirstSeen   time.Time
}

// Ledger is the surface the pipeline needs from a history store. The SQLite
// store implements it; an in-memory variant stands in when the ledger on disk
// is unreadable.
type Ledger interface {
	Contains(ctx context.Context, fingerprint string) (bool, error)
	Record(ctx context.Context, entry Entry) error
	Prune(ctx context.Context, now time.Time, retention time.Duration) (int64, error)
	Count(ctx context.Context) (int, error)
}

// Fingerprint derives the stable duplicate-detection identity for an article
// from its title and URL. The article body never participates.
func Fingerprint(title, url string) string {
	unique := strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(url))
	sum := sha256.Sum256([]byte(unique))
	return hex.EncodeToString(sum[:])
}

// Contains reports whether the fingerprint was already delivered.
func (s *Store) Contains(ctx context.Context, fingerprint string) (bool, error) {
	ctx = ensureContext(ctx)
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM sent_articles WHERE fingerprint = ?", fingerprint,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	return true, nil
}

// Record appends an entry to the ledger. Recording the same fingerprint twice
// is a no-op, which keeps same-day reruns idempotent.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Fingerprint) == "" {
		return errors.New("fingerprint must not be empty")
	}
	firstSeen := entry.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = time.Now().UTC()
	}
	return s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO sent_articles (fingerprint, title, url, source, first_seen)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Fingerprint, entry.Title, entry.URL, entry.Source, firstSeen.UTC(),
	)
}

// Prune removes entries first seen before now minus the retention window and
// returns the number of rows deleted.
func (s *Store) Prune(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	ctx = ensureContext(ctx)
	cutoff := now.UTC().Add(-retention)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx,
			"DELETE FROM sent_articles WHERE first_seen < ?", cutoff,
		)
		if execErr != nil {
			return execErr
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return removed, nil
}

// Count returns the number of ledger entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM sent_articles").Scan(&count); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

// Entries returns all ledger entries, newest first. Used by the CLI.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT fingerprint, title, url, source, first_seen FROM sent_articles ORDER BY first_seen DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Fingerprint, &entry.Title, &entry.URL, &entry.Source, &entry.FirstSeen); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
