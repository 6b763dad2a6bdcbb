// Package failure defines the error taxonomy the pipeline uses to decide
// between aborting a run, degrading to an email-only outcome, and ignoring
// a collaborator hiccup.
package failure
