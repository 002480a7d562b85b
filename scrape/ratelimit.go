package scrape

import (
	"context"

	"github.com/awalczyk/billfetch"
	"golang.org/x/time/rate"
)

// Default request rates against the document repository. Probes are cheap
// and allowed roughly one per 100ms; full downloads one per 500ms. These
// match the pacing the repository has tolerated historically.
const (
	DefaultProbeRPS    = 10.0
	DefaultDownloadRPS = 2.0
)

var _ billfetch.Pacer = (*RatePacer)(nil)

// RatePacer enforces the cooperative throttle between successive external
// calls using token buckets with a burst of 1 (no bursting allowed). With
// concurrent workers the limiters pace the aggregate request rate, not each
// worker separately.
type RatePacer struct {
	probe    *rate.Limiter
	download *rate.Limiter
}

// NewRatePacer creates a RatePacer with the given requests-per-second
// limits for probes and downloads.
func NewRatePacer(probeRPS, downloadRPS float64) *RatePacer {
	return &RatePacer{
		probe:    rate.NewLimiter(rate.Limit(probeRPS), 1),
		download: rate.NewLimiter(rate.Limit(downloadRPS), 1),
	}
}

// WaitProbe blocks until the probe rate allows another request.
// Returns an error if the context is canceled before the wait completes.
func (p *RatePacer) WaitProbe(ctx context.Context) error {
	return p.probe.Wait(ctx)
}

// WaitDownload blocks until the download rate allows another request.
// Returns an error if the context is canceled before the wait completes.
func (p *RatePacer) WaitDownload(ctx context.Context) error {
	return p.download.Wait(ctx)
}
