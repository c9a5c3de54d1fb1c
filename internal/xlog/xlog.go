// Package xlog provides shared logging defaults for long-running
// operations such as volume fitting and dataset simulation.
package xlog

import "log/slog"

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l unchanged, or a discarding logger when l is nil.
// Call sites never need to nil-check their configured logger.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
