package mock

import (
	"context"

	"github.com/awalczyk/billfetch"
)

var _ billfetch.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of billfetch.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return d.DownloadFn(ctx, url)
}
