package scrape

import (
	"context"
	"log/slog"

	"github.com/awalczyk/billfetch"
)

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted  ProgressType = iota
	ProgressSkipped               // already in the ledger
	ProgressFound                 // probe confirmed a real document
	ProgressRejected              // probe rejected the candidate
	ProgressRecorded              // fetched and saved to the ledger
	ProgressFailed                // transport, fetch, or persistence failure
	ProgressFinished
)

// ProgressEvent reports progress as candidates are processed.
type ProgressEvent struct {
	Type     ProgressType
	BillID   string
	URL      string
	Detail   string
	Recorded int // running count of entries recorded this run
}

// ProgressFunc is a callback for reporting run progress. It is always
// invoked from a single goroutine, including in concurrent runs.
type ProgressFunc func(event ProgressEvent)

// FailedLocator pairs a locator with the human-readable reason it failed.
type FailedLocator struct {
	URL    string
	Reason string
}

// Result aggregates the outcome of one run.
type Result struct {
	Recorded []billfetch.LedgerEntry
	Skipped  int // already completed in a previous run
	NotFound int // probe said the package does not exist
	Rejected int // probe said the package exists but is not a valid document
	Failed   []FailedLocator
}

// Runner drives the pipeline: enumerate, probe, fetch, record. It owns the
// in-memory ledger for the duration of a run; no other component mutates it.
// Prober, Fetcher, and Ledger are required. Pacer, Catalog, Titles, and
// Logger are optional.
type Runner struct {
	BaseURL string // defaults to billfetch.DefaultBaseURL
	Prober  billfetch.Prober
	Fetcher billfetch.Fetcher
	Ledger  billfetch.Ledger
	Pacer   billfetch.Pacer
	Catalog billfetch.Catalog
	Titles  map[billfetch.Format]billfetch.TitleExtractor
	Logger  *slog.Logger

	// Concurrency bounds the worker pool for direct-URL runs. Values <= 1
	// run sequentially. Enumeration runs are always sequential because
	// enumeration order is the resume order.
	Concurrency int
}

// RunRange enumerates every candidate for the congress and number range,
// probes each, and fetches the requested formats of confirmed bills.
// If formats is empty, only the primary PDF document is fetched.
// The number range must stay within [1, 9999].
func (r *Runner) RunRange(ctx context.Context, congress string, types []billfetch.BillType, start, end int, formats []billfetch.Format, force bool, progress ProgressFunc) (*Result, error) {
	if start < 1 || end > 9999 || end < start {
		return nil, billfetch.Errorf(billfetch.EINVALID, "number range [%d, %d] outside [1, 9999]", start, end)
	}
	if len(formats) == 0 {
		formats = []billfetch.Format{billfetch.FormatPDF}
	}

	st, err := r.newRunState()
	if err != nil {
		return nil, err
	}

	emit(progress, ProgressEvent{Type: ProgressStarted})

	for id := range billfetch.Enumerate(congress, types, start, end) {
		if err := ctx.Err(); err != nil {
			return st.result(), err
		}
		r.processCandidate(ctx, st, id, formats, force, progress)
	}

	emit(progress, ProgressEvent{Type: ProgressFinished, Recorded: len(st.res.Recorded)})
	return st.result(), nil
}

// processCandidate walks one candidate through the state machine:
// skipped when already completed, rejected when the probe says no, failed
// when every requested format errors, recorded otherwise. No outcome aborts
// the run.
func (r *Runner) processCandidate(ctx context.Context, st *runState, id billfetch.BillID, formats []billfetch.Format, force bool, progress ProgressFunc) {
	key := id.String()

	if !force && st.completed[key] {
		st.res.Skipped++
		emit(progress, ProgressEvent{Type: ProgressSkipped, BillID: key, Recorded: len(st.res.Recorded)})
		return
	}

	if err := r.waitProbe(ctx); err != nil {
		return
	}

	loc := billfetch.PDFLocator(r.baseURL(), id)
	outcome := r.Prober.Probe(ctx, loc)
	switch outcome.Reason {
	case billfetch.ProbeConfirmed:
		// proceed to fetch
	case billfetch.ProbeNotFound:
		// Expected and high-frequency; counted but not logged as an error.
		st.res.NotFound++
		r.log().Debug("bill not found", "bill", key)
		return
	case billfetch.ProbeTransportError:
		st.fail(progress, loc.URL, key, outcome.Detail)
		r.log().Error("probe failed", "bill", key, "url", loc.URL, "detail", outcome.Detail)
		return
	default: // wrong content type, malformed body
		st.res.Rejected++
		r.log().Warn("candidate rejected", "bill", key, "url", loc.URL, "reason", outcome.Reason, "detail", outcome.Detail)
		emit(progress, ProgressEvent{Type: ProgressRejected, BillID: key, URL: loc.URL, Detail: outcome.Detail, Recorded: len(st.res.Recorded)})
		return
	}

	emit(progress, ProgressEvent{Type: ProgressFound, BillID: key, URL: loc.URL, Recorded: len(st.res.Recorded)})

	locs := billfetch.BuildLocators(r.baseURL(), id, formats...)
	entry, failures := r.fetchBill(ctx, id, locs, force)
	for _, f := range failures {
		st.fail(progress, f.URL, key, f.Reason)
	}
	if entry == nil {
		return
	}

	if err := st.record(*entry); err != nil {
		st.fail(progress, loc.URL, key, billfetch.ErrorMessage(err))
		r.log().Error("ledger save failed", "bill", key, "error", err)
		return
	}

	emit(progress, ProgressEvent{Type: ProgressRecorded, BillID: key, Recorded: len(st.res.Recorded)})
}

// fetchBill downloads every requested format of one confirmed bill. It
// returns a ledger entry when at least one format succeeded (partial success
// across formats still counts), plus the failures for the formats that did
// not, and indexes fresh downloads in the catalog.
func (r *Runner) fetchBill(ctx context.Context, id billfetch.BillID, locs map[billfetch.Format]billfetch.Locator, force bool) (*billfetch.LedgerEntry, []FailedLocator) {
	var failures []FailedLocator
	files := make(map[billfetch.Format]string)
	bodies := make(map[billfetch.Format][]byte)

	// Canonical format order keeps multi-format runs deterministic.
	for _, format := range billfetch.AllFormats() {
		loc, ok := locs[format]
		if !ok {
			continue
		}

		if err := r.waitDownload(ctx); err != nil {
			failures = append(failures, FailedLocator{URL: loc.URL, Reason: err.Error()})
			continue
		}

		fetched, err := r.Fetcher.Fetch(ctx, loc, id, !force)
		if err != nil {
			failures = append(failures, FailedLocator{URL: loc.URL, Reason: billfetch.ErrorMessage(err)})
			r.log().Warn("fetch failed", "bill", id.String(), "url", loc.URL, "error", err)
			continue
		}

		files[format] = fetched.Path
		if fetched.Data != nil {
			bodies[format] = fetched.Data
			r.catalog(ctx, id, format, fetched, loc)
		}
	}

	if len(files) == 0 {
		return nil, failures
	}

	return &billfetch.LedgerEntry{
		BillID: id.String(),
		Title:  r.title(id, bodies),
		Files:  files,
	}, failures
}

// title upgrades the placeholder display title using the richest fetched
// body available. Extraction is best-effort; any failure falls back to the
// placeholder.
func (r *Runner) title(id billfetch.BillID, bodies map[billfetch.Format][]byte) string {
	for _, format := range []billfetch.Format{billfetch.FormatXML, billfetch.FormatHTM} {
		extractor, ok := r.Titles[format]
		if !ok {
			continue
		}
		data, ok := bodies[format]
		if !ok {
			continue
		}
		title, err := extractor.Title(data)
		if err != nil {
			r.log().Debug("title extraction failed", "bill", id.String(), "format", format, "error", err)
			continue
		}
		return title
	}
	return id.DisplayTitle()
}

// catalog indexes one fresh download. Catalog failures never fail the
// candidate; the ledger remains the source of truth.
func (r *Runner) catalog(ctx context.Context, id billfetch.BillID, format billfetch.Format, fetched billfetch.Fetched, loc billfetch.Locator) {
	if r.Catalog == nil {
		return
	}

	rec := &billfetch.Record{
		BillID:    id.String(),
		Format:    format,
		FilePath:  fetched.Path,
		SourceURL: loc.URL,
		Title:     id.DisplayTitle(),
	}
	if err := r.Catalog.CreateRecord(ctx, rec, fetched.Data); err != nil {
		r.log().Warn("catalog record failed", "bill", id.String(), "format", format, "error", err)
	}
}

func (r *Runner) baseURL() string {
	if r.BaseURL == "" {
		return billfetch.DefaultBaseURL
	}
	return r.BaseURL
}

func (r *Runner) waitProbe(ctx context.Context) error {
	if r.Pacer == nil {
		return ctx.Err()
	}
	return r.Pacer.WaitProbe(ctx)
}

func (r *Runner) waitDownload(ctx context.Context) error {
	if r.Pacer == nil {
		return ctx.Err()
	}
	return r.Pacer.WaitDownload(ctx)
}

func (r *Runner) log() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func emit(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
