// Package logging builds the slog loggers used across briefcast and keeps
// structured field names consistent between the pipeline stages.
//
// Loggers write to stdout/stderr plus an optional dated run log under the
// configured log directory. Console output is the default when attached to a
// terminal; JSON otherwise.
package logging
