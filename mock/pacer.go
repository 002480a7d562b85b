package mock

import (
	"context"

	"github.com/awalczyk/billfetch"
)

var _ billfetch.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of billfetch.Pacer.
type Pacer struct {
	WaitProbeFn    func(ctx context.Context) error
	WaitDownloadFn func(ctx context.Context) error
}

func (p *Pacer) WaitProbe(ctx context.Context) error {
	return p.WaitProbeFn(ctx)
}

func (p *Pacer) WaitDownload(ctx context.Context) error {
	return p.WaitDownloadFn(ctx)
}
