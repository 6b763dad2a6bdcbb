package testsupport

import (
	"path/filepath"
	"testing"

	"briefcast/internal/history"
)

// MustOpenStore opens a history.Store in a temp dir and registers cleanup.
func MustOpenStore(t testing.TB) *history.Store {
	t.Helper()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
