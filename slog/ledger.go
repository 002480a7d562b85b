package slog

import (
	"log/slog"
	"time"

	"github.com/awalczyk/billfetch"
)

// Ensure LoggingLedger implements billfetch.Ledger.
var _ billfetch.Ledger = (*LoggingLedger)(nil)

// LoggingLedger wraps a Ledger with debug logging of loads and saves.
type LoggingLedger struct {
	next   billfetch.Ledger
	logger *slog.Logger
}

// NewLoggingLedger creates a new LoggingLedger.
func NewLoggingLedger(next billfetch.Ledger, logger *slog.Logger) *LoggingLedger {
	return &LoggingLedger{next: next, logger: logger}
}

// Load delegates to the wrapped ledger and logs the entry count.
func (l *LoggingLedger) Load() ([]billfetch.LedgerEntry, error) {
	entries, err := l.next.Load()
	if err != nil {
		l.logger.Error("ledger load failed", "error", err)
		return nil, err
	}
	l.logger.Debug("ledger loaded", "entries", len(entries))
	return entries, nil
}

// Save delegates to the wrapped ledger and logs the write.
func (l *LoggingLedger) Save(entries []billfetch.LedgerEntry) error {
	begin := time.Now()
	err := l.next.Save(entries)
	if err != nil {
		l.logger.Error("ledger save failed", "entries", len(entries), "error", err)
		return err
	}
	l.logger.Debug("ledger saved", "entries", len(entries), "duration", time.Since(begin))
	return nil
}
