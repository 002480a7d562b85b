// Package slog provides logging decorators for billfetch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/awalczyk/billfetch"
)

// Ensure LoggingProber implements billfetch.Prober.
var _ billfetch.Prober = (*LoggingProber)(nil)

// LoggingProber wraps a Prober with debug logging of every probe outcome.
type LoggingProber struct {
	next   billfetch.Prober
	logger *slog.Logger
}

// NewLoggingProber creates a new LoggingProber.
func NewLoggingProber(next billfetch.Prober, logger *slog.Logger) *LoggingProber {
	return &LoggingProber{next: next, logger: logger}
}

// Probe delegates to the wrapped prober and logs the classified outcome.
func (p *LoggingProber) Probe(ctx context.Context, loc billfetch.Locator) billfetch.ProbeOutcome {
	begin := time.Now()
	outcome := p.next.Probe(ctx, loc)
	p.logger.Debug("probe",
		"url", loc.URL,
		"valid", outcome.Valid,
		"reason", outcome.Reason,
		"duration", time.Since(begin),
	)
	return outcome
}
