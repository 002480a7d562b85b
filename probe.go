package billfetch

import "context"

// PDFMagic is the signature that opens every well-formed PDF document.
const PDFMagic = "%PDF-"

// ProbeReason classifies the outcome of an existence probe.
type ProbeReason string

const (
	ProbeConfirmed        ProbeReason = "confirmed"          // resource exists and is a well-formed PDF
	ProbeNotFound         ProbeReason = "not_found"          // resource absent (expected, high frequency)
	ProbeWrongContentType ProbeReason = "wrong_content_type" // resource exists but is not a PDF
	ProbeMalformedBody    ProbeReason = "malformed_body"     // PDF content type but missing %PDF- signature
	ProbeTransportError   ProbeReason = "transport_error"    // network or server failure
)

// ProbeOutcome is the transient result of one existence probe. It is
// consumed immediately by the orchestrator and never persisted.
type ProbeOutcome struct {
	Valid  bool
	Reason ProbeReason
	Detail string // human-readable context, set for non-confirmed outcomes
}

// Prober decides whether a candidate locator refers to a real, well-formed
// document. Every failure mode is classified into the outcome rather than
// returned as an error, so callers branch on data, not error types.
//
// Implementations must read only the minimal bytes needed to verify the
// document signature; the body is re-fetched in full by the Fetcher.
type Prober interface {
	Probe(ctx context.Context, loc Locator) ProbeOutcome
}

// Pacer enforces a respectful request rate against the external repository.
// Pacing is imposed by the caller between successive external calls, not by
// the Prober or Downloader themselves. Probes are cheap and paced tighter;
// full downloads are paced looser.
type Pacer interface {
	// WaitProbe blocks until the probe rate allows another request.
	WaitProbe(ctx context.Context) error

	// WaitDownload blocks until the download rate allows another request.
	WaitDownload(ctx context.Context) error
}
