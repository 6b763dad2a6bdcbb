package feeds

import (
	"time"

	"briefcast/internal/history"
)

// Article is one fetched item, alive only for the duration of a run. Its
// fingerprint (not the article itself) is what the history ledger persists.
type Article struct {
	Source      string
	Title       string
	URL         string
	Summary     string
	PublishedAt time.Time
}

// Fingerprint returns the article's stable duplicate-detection identity.
func (a Article) Fingerprint() string {
	return history.Fingerprint(a.Title, a.URL)
}
