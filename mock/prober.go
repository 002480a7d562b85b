package mock

import (
	"context"

	"github.com/awalczyk/billfetch"
)

var _ billfetch.Prober = (*Prober)(nil)

// Prober is a mock implementation of billfetch.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, loc billfetch.Locator) billfetch.ProbeOutcome
}

func (p *Prober) Probe(ctx context.Context, loc billfetch.Locator) billfetch.ProbeOutcome {
	return p.ProbeFn(ctx, loc)
}
