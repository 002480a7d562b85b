// Package http provides net/http-based implementations of the billfetch
// Prober and Downloader for talking to the govinfo document repository.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/awalczyk/billfetch"
)

// DefaultTimeout is the default per-request timeout.
// The underlying transport has no default deadline of its own, so an expired
// timeout surfaces as a transport-error outcome rather than a hang.
const DefaultTimeout = 30 * time.Second

// Ensure Prober implements billfetch.Prober at compile time.
var _ billfetch.Prober = (*Prober)(nil)

// Prober checks whether a candidate locator refers to a real, well-formed
// PDF document. It issues a streaming GET and reads only the first five body
// bytes; the full body is left for the Downloader.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberTimeout sets the per-request timeout.
// Defaults to DefaultTimeout if not specified.
func WithProberTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		p.timeout = d
	}
}

// NewProber creates a new HTTP-based Prober.
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.client = &http.Client{
		Timeout: p.timeout,
	}

	return p
}

// Probe classifies the locator by status code, declared content type, and
// the PDF signature bytes. All failure modes are folded into the outcome.
func (p *Prober) Probe(ctx context.Context, loc billfetch.Locator) billfetch.ProbeOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URL, nil)
	if err != nil {
		return transportOutcome(err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return transportOutcome(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// classified below
	case resp.StatusCode == http.StatusNotFound:
		return billfetch.ProbeOutcome{
			Reason: billfetch.ProbeNotFound,
			Detail: "bill not found (404)",
		}
	default:
		return billfetch.ProbeOutcome{
			Reason: billfetch.ProbeTransportError,
			Detail: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
		}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/pdf") {
		return billfetch.ProbeOutcome{
			Reason: billfetch.ProbeWrongContentType,
			Detail: fmt.Sprintf("not a PDF file (content-type: %s)", contentType),
		}
	}

	magic := make([]byte, len(billfetch.PDFMagic))
	if _, err := io.ReadFull(resp.Body, magic); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return billfetch.ProbeOutcome{
				Reason: billfetch.ProbeMalformedBody,
				Detail: "body shorter than PDF signature",
			}
		}
		return transportOutcome(err)
	}

	if string(magic) != billfetch.PDFMagic {
		return billfetch.ProbeOutcome{
			Reason: billfetch.ProbeMalformedBody,
			Detail: "not a valid PDF file",
		}
	}

	return billfetch.ProbeOutcome{Valid: true, Reason: billfetch.ProbeConfirmed}
}

func transportOutcome(err error) billfetch.ProbeOutcome {
	return billfetch.ProbeOutcome{
		Reason: billfetch.ProbeTransportError,
		Detail: fmt.Sprintf("error checking URL: %v", err),
	}
}
