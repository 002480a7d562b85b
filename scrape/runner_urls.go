package scrape

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/awalczyk/billfetch"
	"golang.org/x/sync/errgroup"
)

// urlQueueFPRate is the Bloom filter false positive rate for direct-URL
// deduplication.
const urlQueueFPRate = 1e-4

// RunURLs downloads bills from caller-supplied document URLs, bypassing
// enumeration and probing entirely. Each URL's identifier is extracted from
// its filename; URLs outside the identifier grammar fail fast and are
// reported rather than guessed at. Duplicate URLs are collapsed.
//
// When Runner.Concurrency is greater than one, URLs are processed by a
// bounded worker pool. The shared Pacer still bounds the aggregate request
// rate, and a single goroutine owns all ledger mutation and progress
// callbacks.
func (r *Runner) RunURLs(ctx context.Context, urls []string, force bool, progress ProgressFunc) (*Result, error) {
	st, err := r.newRunState()
	if err != nil {
		return nil, err
	}

	queue := NewURLQueue(uint(max(len(urls), 1)), urlQueueFPRate)
	var pending []string
	for _, u := range urls {
		queue.Push(u)
	}
	for {
		u, ok := queue.Pop()
		if !ok {
			break
		}
		pending = append(pending, u)
	}

	emit(progress, ProgressEvent{Type: ProgressStarted})

	if r.Concurrency > 1 {
		r.runURLsConcurrent(ctx, st, pending, force, progress)
	} else {
		for _, u := range pending {
			if err := ctx.Err(); err != nil {
				return st.result(), err
			}
			st.apply(r.processURL(ctx, u, force, st.completed), progress)
		}
	}

	emit(progress, ProgressEvent{Type: ProgressFinished, Recorded: len(st.res.Recorded)})
	return st.result(), nil
}

// FetchBill downloads an already-identified bill from an explicit map of
// format to externally-supplied URL. This is the second pipeline entry
// point: no enumeration, no locator derivation, no probe.
func (r *Runner) FetchBill(ctx context.Context, id billfetch.BillID, urls map[billfetch.Format]string, force bool, progress ProgressFunc) (*Result, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, billfetch.Errorf(billfetch.EINVALID, "no locators supplied for %s", id)
	}

	locs := make(map[billfetch.Format]billfetch.Locator, len(urls))
	for format, u := range urls {
		if !billfetch.ValidFormat(format) {
			return nil, billfetch.Errorf(billfetch.EINVALID, "unknown format %q for %s", format, id)
		}
		locs[format] = billfetch.Locator{URL: u, Format: format}
	}

	st, err := r.newRunState()
	if err != nil {
		return nil, err
	}

	key := id.String()
	if !force && st.completed[key] {
		st.res.Skipped++
		emit(progress, ProgressEvent{Type: ProgressSkipped, BillID: key})
		return st.result(), nil
	}

	entry, failures := r.fetchBill(ctx, id, locs, force)
	for _, f := range failures {
		st.fail(progress, f.URL, key, f.Reason)
	}
	if entry != nil {
		if err := st.record(*entry); err != nil {
			st.fail(progress, "", key, billfetch.ErrorMessage(err))
		} else {
			emit(progress, ProgressEvent{Type: ProgressRecorded, BillID: key, Recorded: len(st.res.Recorded)})
		}
	}

	return st.result(), nil
}

// urlOutcome is the result of processing one direct URL, produced by a
// worker and applied to the run state by the owning goroutine.
type urlOutcome struct {
	url      string
	billID   string
	skipped  bool
	entry    *billfetch.LedgerEntry
	failures []FailedLocator
}

// processURL walks one direct URL through identify, skip-check, and fetch.
// It never touches the run state; completed is a read-only view.
func (r *Runner) processURL(ctx context.Context, rawURL string, force bool, completed map[string]bool) urlOutcome {
	id, err := billfetch.ParseBillIDFromURL(rawURL)
	if err != nil {
		return urlOutcome{
			url:      rawURL,
			failures: []FailedLocator{{URL: rawURL, Reason: billfetch.ErrorMessage(err)}},
		}
	}

	key := id.String()
	if !force && completed[key] {
		return urlOutcome{url: rawURL, billID: key, skipped: true}
	}

	format := formatForURL(rawURL)
	locs := map[billfetch.Format]billfetch.Locator{
		format: {URL: rawURL, Format: format},
	}
	entry, failures := r.fetchBill(ctx, id, locs, force)

	return urlOutcome{url: rawURL, billID: key, entry: entry, failures: failures}
}

// runURLsConcurrent fans URLs out across a bounded worker pool. Workers only
// probe and fetch; the caller's goroutine drains outcomes and is the single
// writer of the ledger.
func (r *Runner) runURLsConcurrent(ctx context.Context, st *runState, urls []string, force bool, progress ProgressFunc) {
	// Snapshot the completed set so workers never read a map the owning
	// goroutine is writing.
	completed := make(map[string]bool, len(st.completed))
	for k := range st.completed {
		completed[k] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)
	outcomes := make(chan urlOutcome)

	go func() {
		for _, u := range urls {
			g.Go(func() error {
				select {
				case outcomes <- r.processURL(gctx, u, force, completed):
				case <-gctx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		st.apply(out, progress)
	}
}

// apply folds one URL outcome into the run state. Only the owning goroutine
// calls it.
func (st *runState) apply(out urlOutcome, progress ProgressFunc) {
	for _, f := range out.failures {
		st.fail(progress, f.URL, out.billID, f.Reason)
	}

	if out.skipped {
		st.res.Skipped++
		emit(progress, ProgressEvent{Type: ProgressSkipped, BillID: out.billID, Recorded: len(st.res.Recorded)})
		return
	}
	if out.entry == nil {
		return
	}

	if err := st.record(*out.entry); err != nil {
		st.fail(progress, out.url, out.billID, billfetch.ErrorMessage(err))
		st.r.log().Error("ledger save failed", "bill", out.billID, "error", err)
		return
	}
	emit(progress, ProgressEvent{Type: ProgressRecorded, BillID: out.billID, URL: out.url, Recorded: len(st.res.Recorded)})
}

// formatForURL infers the document format from the URL's file extension.
// URLs without a recognized extension are treated as the primary PDF
// document, matching how direct URL lists are supplied in practice.
func formatForURL(rawURL string) billfetch.Format {
	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	switch ext {
	case ".xml":
		return billfetch.FormatXML
	case ".htm", ".html":
		return billfetch.FormatHTM
	default:
		return billfetch.FormatPDF
	}
}
