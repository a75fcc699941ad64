// Package logging builds the slog loggers used across the CLI, the TUI, and
// the stub daemon.
//
// It offers a console handler tuned for interactive reading and a JSON
// handler for log files, both gated by a shared level var. Attr helpers keep
// call sites terse and NewNop gives tests a logger that discards everything.
package logging
