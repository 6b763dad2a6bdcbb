package pipeline

import (
	"log/slog"

	"briefcast/internal/history"
	"briefcast/internal/logging"
)

// OpenLedger opens the durable history store. An unreadable or corrupt store
// degrades to an empty in-memory ledger so the run still goes out; today's
// digest may repeat articles, which beats sending nothing.
func OpenLedger(path string, logger *slog.Logger) history.Ledger {
	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history store unreadable, continuing with empty ledger",
			logging.String("path", path),
			logging.Error(err),
		)
		return history.NewMemory()
	}
	return store
}
