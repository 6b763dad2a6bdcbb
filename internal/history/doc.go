// Package history keeps the rolling ledger of article fingerprints that have
// already been delivered, so a digest never repeats content. Entries expire
// after the configured retention window.
package history
