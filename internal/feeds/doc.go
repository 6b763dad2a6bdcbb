// Package feeds retrieves articles from the configured syndication sources.
// Each feed fails in isolation: a broken or slow source is logged and skipped
// without aborting the run.
package feeds
