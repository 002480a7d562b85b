package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/awalczyk/billfetch"
)

// Ensure Downloader implements billfetch.Downloader at compile time.
var _ billfetch.Downloader = (*Downloader)(nil)

// Downloader retrieves the full byte content of document URLs.
type Downloader struct {
	client  *http.Client
	timeout time.Duration
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloaderTimeout sets the per-request timeout.
// Defaults to DefaultTimeout if not specified.
func WithDownloaderTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// NewDownloader creates a new HTTP-based Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	dl := &Downloader{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(dl)
	}

	dl.client = &http.Client{
		Timeout: dl.timeout,
	}

	return dl
}

// Download retrieves the body at url. Any non-2xx status or network failure
// returns an ETRANSPORT error; the body is read fully into memory so the
// caller can write it all-or-nothing.
func (dl *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, billfetch.Errorf(billfetch.ETRANSPORT, "invalid request for %s: %v", url, err)
	}

	resp, err := dl.client.Do(req)
	if err != nil {
		return nil, billfetch.Errorf(billfetch.ETRANSPORT, "error downloading %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, billfetch.Errorf(billfetch.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, billfetch.Errorf(billfetch.ETRANSPORT, "error reading body of %s: %v", url, err)
	}

	return body, nil
}
