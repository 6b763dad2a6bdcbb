package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"briefcast/internal/history"
	"briefcast/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	return testsupport.MustOpenStore(t)
}

func TestRecordAndContains(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	fp := history.Fingerprint("Big Launch", "https://example.com/launch")
	ok, err := store.Contains(ctx, fp)
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if ok {
		t.Fatal("fresh ledger should not contain fingerprint")
	}

	entry := history.Entry{Fingerprint: fp, Title: "Big Launch", URL: "https://example.com/launch", Source: "Example"}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	// Recording twice must stay idempotent for same-day reruns.
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}

	ok, err = store.Contains(ctx, fp)
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if !ok {
		t.Fatal("expected recorded fingerprint to be found")
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 entry, got %d", count)
	}
}

func TestRecordRequiresFingerprint(t *testing.T) {
	store := openStore(t)
	if err := store.Record(context.Background(), history.Entry{Title: "no fp"}); err == nil {
		t.Fatal("expected error for empty fingerprint")
	}
}

func TestPruneRespectsSevenDayBoundary(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	retention := 7 * 24 * time.Hour

	cases := []struct {
		age  time.Duration
		keep bool
	}{
		{6 * 24 * time.Hour, true},
		{7*24*time.Hour - time.Second, true},
		{7*24*time.Hour + time.Second, false},
		{11 * 24 * time.Hour, false},
	}
	for i, tc := range cases {
		entry := history.Entry{
			Fingerprint: fmt.Sprintf("fp-%d", i),
			FirstSeen:   now.Add(-tc.age),
		}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	removed, err := store.Prune(ctx, now, retention)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 entries pruned, got %d", removed)
	}

	for i, tc := range cases {
		ok, err := store.Contains(ctx, fmt.Sprintf("fp-%d", i))
		if err != nil {
			t.Fatalf("Contains failed: %v", err)
		}
		if ok != tc.keep {
			t.Fatalf("case %d: contains=%v, want %v", i, ok, tc.keep)
		}
	}
}

func TestEntriesNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := history.Entry{
			Fingerprint: fmt.Sprintf("fp-%d", i),
			Title:       fmt.Sprintf("Article %d", i),
			FirstSeen:   base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Fingerprint != "fp-2" || entries[2].Fingerprint != "fp-0" {
		t.Fatalf("expected newest first, got %q..%q", entries[0].Fingerprint, entries[2].Fingerprint)
	}
}

func TestFingerprintStability(t *testing.T) {
	a := history.Fingerprint("Title", "https://example.com/a")
	b := history.Fingerprint("  TITLE  ", "HTTPS://EXAMPLE.COM/A")
	if a != b {
		t.Fatal("fingerprint should ignore case and surrounding whitespace")
	}
	c := history.Fingerprint("Title", "https://example.com/b")
	if a == c {
		t.Fatal("different URLs must produce different fingerprints")
	}
}

func TestMemoryLedgerPrune(t *testing.T) {
	mem := history.NewMemory()
	ctx := context.Background()
	now := time.Now().UTC()
	_ = mem.Record(ctx, history.Entry{Fingerprint: "old", FirstSeen: now.Add(-8 * 24 * time.Hour)})
	_ = mem.Record(ctx, history.Entry{Fingerprint: "new", FirstSeen: now.Add(-time.Hour)})

	removed, err := mem.Prune(ctx, now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if ok, _ := mem.Contains(ctx, "new"); !ok {
		t.Fatal("recent entry should survive prune")
	}
}
