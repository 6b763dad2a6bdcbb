package history

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory Ledger. The pipeline substitutes it when the on-disk
// ledger cannot be opened, degrading to "send everything" instead of failing
// the run. It also backs tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Contains(_ context.Context, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[fingerprint]
	return ok, nil
}

func (m *Memory) Record(_ context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Fingerprint) == "" {
		return errors.New("fingerprint must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.Fingerprint]; ok {
		return nil
	}
	if entry.FirstSeen.IsZero() {
		entry.FirstSeen = time.Now().UTC()
	}
	m.entries[entry.Fingerprint] = entry
	return nil
}

func (m *Memory) Prune(_ context.Context, now time.Time, retention time.Duration) (int64, error) {
	cutoff := now.UTC().Add(-retention)
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for fingerprint, entry := range m.entries {
		if entry.FirstSeen.UTC().Before(cutoff) {
			delete(m.entries, fingerprint)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}
