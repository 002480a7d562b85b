package scrape_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/awalczyk/billfetch"
	"github.com/awalczyk/billfetch/mock"
	"github.com/awalczyk/billfetch/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerSpy is an in-memory ledger that remembers every saved snapshot.
type ledgerSpy struct {
	mu      sync.Mutex
	entries []billfetch.LedgerEntry
	saves   int
	saveErr error
}

var _ billfetch.Ledger = (*ledgerSpy)(nil)

func (l *ledgerSpy) Load() ([]billfetch.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]billfetch.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *ledgerSpy) Save(entries []billfetch.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.saveErr != nil {
		return l.saveErr
	}
	l.saves++
	l.entries = make([]billfetch.LedgerEntry, len(entries))
	copy(l.entries, entries)
	return nil
}

// confirmOnly builds a prober that confirms the given bill identifiers and
// reports everything else as absent.
func confirmOnly(ids ...string) *mock.Prober {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return &mock.Prober{
		ProbeFn: func(_ context.Context, loc billfetch.Locator) billfetch.ProbeOutcome {
			id, err := billfetch.ParseBillIDFromURL(loc.URL)
			if err == nil && set[id.String()] {
				return billfetch.ProbeOutcome{Valid: true, Reason: billfetch.ProbeConfirmed}
			}
			return billfetch.ProbeOutcome{Reason: billfetch.ProbeNotFound, Detail: "bill not found (404)"}
		},
	}
}

// pathFetcher builds a fetcher that succeeds with a deterministic path and
// a small body for every request.
func pathFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, loc billfetch.Locator, id billfetch.BillID, _ bool) (billfetch.Fetched, error) {
			return billfetch.Fetched{
				Path: filepath.Join("downloads", id.String(), string(loc.Format), id.String()+loc.Format.Ext()),
				Data: []byte("%PDF-1.7 body"),
			}, nil
		},
	}
}

func TestRunner_RunRange(t *testing.T) {
	t.Parallel()

	hr := []billfetch.BillType{billfetch.TypeHR}

	t.Run("InvalidRange", func(t *testing.T) {
		t.Parallel()

		r := &scrape.Runner{Prober: confirmOnly(), Fetcher: pathFetcher(), Ledger: &ledgerSpy{}}

		_, err := r.RunRange(context.Background(), "118", hr, 0, 5, nil, false, nil)
		require.Error(t, err)
		assert.Equal(t, billfetch.EINVALID, billfetch.ErrorCode(err))

		_, err = r.RunRange(context.Background(), "118", hr, 1, 10000, nil, false, nil)
		require.Error(t, err)
		assert.Equal(t, billfetch.EINVALID, billfetch.ErrorCode(err))
	})

	t.Run("RecordsConfirmedBill", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{}
		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih"),
			Fetcher: pathFetcher(),
			Ledger:  ledger,
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)

		require.Len(t, res.Recorded, 1)
		entry := res.Recorded[0]
		assert.Equal(t, "BILLS-118hr1ih", entry.BillID)
		assert.Equal(t, "Bill BILLS-118hr1ih", entry.Title)
		assert.Equal(t, filepath.Join("downloads", "BILLS-118hr1ih", "pdf", "BILLS-118hr1ih.pdf"), entry.Files[billfetch.FormatPDF])

		// One number enumerates all nine versions; eight were absent.
		assert.Equal(t, 8, res.NotFound)
		assert.Empty(t, res.Failed)

		saved, err := ledger.Load()
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, "BILLS-118hr1ih", saved[0].BillID)
	})

	t.Run("SavesLedgerAfterEachBill", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{}
		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih", "BILLS-118hr2ih"),
			Fetcher: pathFetcher(),
			Ledger:  ledger,
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 2, nil, false, nil)
		require.NoError(t, err)
		require.Len(t, res.Recorded, 2)
		assert.Equal(t, 2, ledger.saves)
	})

	t.Run("SkipsCompletedBills", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{entries: []billfetch.LedgerEntry{{
			BillID: "BILLS-118hr1ih",
			Title:  "Bill BILLS-118hr1ih",
			Files:  map[billfetch.Format]string{billfetch.FormatPDF: "downloads/BILLS-118hr1ih/pdf/BILLS-118hr1ih.pdf"},
		}}}

		var probed []string
		r := &scrape.Runner{
			Prober: &mock.Prober{
				ProbeFn: func(_ context.Context, loc billfetch.Locator) billfetch.ProbeOutcome {
					probed = append(probed, loc.URL)
					return billfetch.ProbeOutcome{Reason: billfetch.ProbeNotFound}
				},
			},
			Fetcher: pathFetcher(),
			Ledger:  ledger,
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
		assert.Empty(t, res.Recorded)

		for _, url := range probed {
			assert.NotContains(t, url, "BILLS-118hr1ih.")
		}
	})

	t.Run("ForceReprocessesCompletedBills", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{entries: []billfetch.LedgerEntry{{
			BillID: "BILLS-118hr1ih",
			Files:  map[billfetch.Format]string{billfetch.FormatPDF: "downloads/BILLS-118hr1ih/pdf/BILLS-118hr1ih.pdf"},
		}}}

		var skipFlags []bool
		r := &scrape.Runner{
			Prober: confirmOnly("BILLS-118hr1ih"),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, loc billfetch.Locator, id billfetch.BillID, skipExisting bool) (billfetch.Fetched, error) {
					skipFlags = append(skipFlags, skipExisting)
					return billfetch.Fetched{Path: "p", Data: []byte("d")}, nil
				},
			},
			Ledger: ledger,
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, true, nil)
		require.NoError(t, err)
		assert.Zero(t, res.Skipped)
		require.Len(t, res.Recorded, 1)
		require.Len(t, skipFlags, 1)
		assert.False(t, skipFlags[0])

		// Re-recording the same bill must not duplicate its ledger entry.
		saved, err := ledger.Load()
		require.NoError(t, err)
		assert.Len(t, saved, 1)
	})

	t.Run("RejectedCandidateIsNotRecorded", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{}
		r := &scrape.Runner{
			Prober: &mock.Prober{
				ProbeFn: func(context.Context, billfetch.Locator) billfetch.ProbeOutcome {
					return billfetch.ProbeOutcome{Reason: billfetch.ProbeWrongContentType, Detail: "unexpected content type \"text/html\""}
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, billfetch.Locator, billfetch.BillID, bool) (billfetch.Fetched, error) {
					t.Error("fetch should not run for a rejected candidate")
					return billfetch.Fetched{}, nil
				},
			},
			Ledger: ledger,
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)
		assert.Equal(t, 9, res.Rejected)
		assert.Empty(t, res.Recorded)
		assert.Zero(t, ledger.saves)
	})

	t.Run("TransportErrorIsReported", func(t *testing.T) {
		t.Parallel()

		r := &scrape.Runner{
			Prober: &mock.Prober{
				ProbeFn: func(context.Context, billfetch.Locator) billfetch.ProbeOutcome {
					return billfetch.ProbeOutcome{Reason: billfetch.ProbeTransportError, Detail: "unexpected status code: 503"}
				},
			},
			Fetcher: pathFetcher(),
			Ledger:  &ledgerSpy{},
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)
		require.Len(t, res.Failed, 9)
		assert.Equal(t, "unexpected status code: 503", res.Failed[0].Reason)
		assert.Empty(t, res.Recorded)
	})

	t.Run("FetchFailureIsNotRecorded", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{}
		r := &scrape.Runner{
			Prober: confirmOnly("BILLS-118hr1ih"),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, loc billfetch.Locator, _ billfetch.BillID, _ bool) (billfetch.Fetched, error) {
					return billfetch.Fetched{}, billfetch.Errorf(billfetch.ETRANSPORT, "HTTP 500 for %s", loc.URL)
				},
			},
			Ledger: ledger,
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)
		require.Len(t, res.Failed, 1)
		assert.Empty(t, res.Recorded)
		assert.Zero(t, ledger.saves)
	})

	t.Run("PartialFormatSuccessIsRecorded", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{}
		r := &scrape.Runner{
			Prober: confirmOnly("BILLS-118hr1ih"),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, loc billfetch.Locator, id billfetch.BillID, _ bool) (billfetch.Fetched, error) {
					if loc.Format == billfetch.FormatXML {
						return billfetch.Fetched{}, billfetch.Errorf(billfetch.ETRANSPORT, "HTTP 500 for %s", loc.URL)
					}
					return billfetch.Fetched{Path: "downloads/BILLS-118hr1ih/pdf/BILLS-118hr1ih.pdf", Data: []byte("d")}, nil
				},
			},
			Ledger: ledger,
		}

		formats := []billfetch.Format{billfetch.FormatPDF, billfetch.FormatXML}
		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, formats, false, nil)
		require.NoError(t, err)

		require.Len(t, res.Recorded, 1)
		entry := res.Recorded[0]
		assert.Contains(t, entry.Files, billfetch.FormatPDF)
		assert.NotContains(t, entry.Files, billfetch.FormatXML)
		require.Len(t, res.Failed, 1)
	})

	t.Run("TitleFromFetchedXML", func(t *testing.T) {
		t.Parallel()

		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih"),
			Fetcher: pathFetcher(),
			Ledger:  &ledgerSpy{},
			Titles: map[billfetch.Format]billfetch.TitleExtractor{
				billfetch.FormatXML: &mock.TitleExtractor{
					TitleFn: func(data []byte) (string, error) {
						return "An Act to test title extraction", nil
					},
				},
			},
		}

		formats := []billfetch.Format{billfetch.FormatPDF, billfetch.FormatXML}
		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, formats, false, nil)
		require.NoError(t, err)

		require.Len(t, res.Recorded, 1)
		assert.Equal(t, "An Act to test title extraction", res.Recorded[0].Title)
	})

	t.Run("LedgerSaveFailure", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{saveErr: billfetch.Errorf(billfetch.EINTERNAL, "disk full")}
		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih"),
			Fetcher: pathFetcher(),
			Ledger:  ledger,
		}

		res, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Recorded)
		require.NotEmpty(t, res.Failed)
	})

	t.Run("CatalogsFreshDownloads", func(t *testing.T) {
		t.Parallel()

		var records []*billfetch.Record
		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih"),
			Fetcher: pathFetcher(),
			Ledger:  &ledgerSpy{},
			Catalog: &mock.Catalog{
				CreateRecordFn: func(_ context.Context, rec *billfetch.Record, data []byte) error {
					records = append(records, rec)
					assert.NotEmpty(t, data)
					return nil
				},
			},
		}

		_, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)

		require.Len(t, records, 1)
		assert.Equal(t, "BILLS-118hr1ih", records[0].BillID)
		assert.Equal(t, billfetch.FormatPDF, records[0].Format)
	})

	t.Run("PacesProbesAndDownloads", func(t *testing.T) {
		t.Parallel()

		var probeWaits, downloadWaits int
		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih"),
			Fetcher: pathFetcher(),
			Ledger:  &ledgerSpy{},
			Pacer: &mock.Pacer{
				WaitProbeFn:    func(context.Context) error { probeWaits++; return nil },
				WaitDownloadFn: func(context.Context) error { downloadWaits++; return nil },
			},
		}

		_, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, nil)
		require.NoError(t, err)
		assert.Equal(t, 9, probeWaits)
		assert.Equal(t, 1, downloadWaits)
	})

	t.Run("ProgressEvents", func(t *testing.T) {
		t.Parallel()

		var events []scrape.ProgressEvent
		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih"),
			Fetcher: pathFetcher(),
			Ledger:  &ledgerSpy{},
		}

		_, err := r.RunRange(context.Background(), "118", hr, 1, 1, nil, false, func(e scrape.ProgressEvent) {
			events = append(events, e)
		})
		require.NoError(t, err)

		require.NotEmpty(t, events)
		assert.Equal(t, scrape.ProgressStarted, events[0].Type)
		assert.Equal(t, scrape.ProgressFinished, events[len(events)-1].Type)

		var found, recorded bool
		for _, e := range events {
			switch e.Type {
			case scrape.ProgressFound:
				found = true
				assert.Equal(t, "BILLS-118hr1ih", e.BillID)
			case scrape.ProgressRecorded:
				recorded = true
				assert.Equal(t, 1, e.Recorded)
			}
		}
		assert.True(t, found)
		assert.True(t, recorded)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := &scrape.Runner{Prober: confirmOnly(), Fetcher: pathFetcher(), Ledger: &ledgerSpy{}}

		res, err := r.RunRange(ctx, "118", hr, 1, 100, nil, false, nil)
		require.Error(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res.Recorded)
	})

	t.Run("SecondRunIsIdempotent", func(t *testing.T) {
		t.Parallel()

		ledger := &ledgerSpy{}
		r := &scrape.Runner{
			Prober:  confirmOnly("BILLS-118hr1ih", "BILLS-118hr2ih"),
			Fetcher: pathFetcher(),
			Ledger:  ledger,
		}

		first, err := r.RunRange(context.Background(), "118", hr, 1, 2, nil, false, nil)
		require.NoError(t, err)
		require.Len(t, first.Recorded, 2)

		second, err := r.RunRange(context.Background(), "118", hr, 1, 2, nil, false, nil)
		require.NoError(t, err)
		assert.Empty(t, second.Recorded)
		assert.Equal(t, 2, second.Skipped)

		saved, err := ledger.Load()
		require.NoError(t, err)
		assert.Len(t, saved, 2)
	})
}
