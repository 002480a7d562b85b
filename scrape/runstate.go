package scrape

import (
	"github.com/awalczyk/billfetch"
)

// runState holds the in-memory ledger and aggregates for one run. The
// orchestrator exclusively owns it: in concurrent runs all mutation happens
// on the single goroutine draining worker outcomes.
type runState struct {
	r         *Runner
	entries   []billfetch.LedgerEntry
	index     map[string]int
	completed map[string]bool
	res       Result
}

func (r *Runner) newRunState() (*runState, error) {
	entries, err := r.Ledger.Load()
	if err != nil {
		return nil, err
	}

	st := &runState{
		r:         r,
		entries:   entries,
		index:     make(map[string]int, len(entries)),
		completed: billfetch.CompletedIDs(entries),
	}
	for i, e := range entries {
		st.index[e.BillID] = i
	}
	return st, nil
}

// record merges the entry into the in-memory sequence and saves the whole
// sequence immediately, so progress survives a crash on the very next
// candidate. A save failure rolls the in-memory state back, leaving the
// candidate to be retried on the next run. The merge keeps the ledger free
// of duplicate identifiers even when one run touches the same bill twice.
func (st *runState) record(entry billfetch.LedgerEntry) error {
	if i, ok := st.index[entry.BillID]; ok {
		prev := st.entries[i]
		merged := billfetch.LedgerEntry{
			BillID: entry.BillID,
			Title:  entry.Title,
			Files:  make(map[billfetch.Format]string, len(prev.Files)+len(entry.Files)),
		}
		for f, p := range prev.Files {
			merged.Files[f] = p
		}
		for f, p := range entry.Files {
			merged.Files[f] = p
		}

		st.entries[i] = merged
		if err := st.r.Ledger.Save(st.entries); err != nil {
			st.entries[i] = prev
			return err
		}
		st.res.Recorded = append(st.res.Recorded, merged)
	} else {
		st.entries = append(st.entries, entry)
		if err := st.r.Ledger.Save(st.entries); err != nil {
			st.entries = st.entries[:len(st.entries)-1]
			return err
		}
		st.index[entry.BillID] = len(st.entries) - 1
		st.res.Recorded = append(st.res.Recorded, entry)
	}

	st.completed[entry.BillID] = true
	return nil
}

// fail appends to the failed-locator list and emits a progress event.
func (st *runState) fail(progress ProgressFunc, url, billID, reason string) {
	st.res.Failed = append(st.res.Failed, FailedLocator{URL: url, Reason: reason})
	emit(progress, ProgressEvent{
		Type:     ProgressFailed,
		BillID:   billID,
		URL:      url,
		Detail:   reason,
		Recorded: len(st.res.Recorded),
	})
}

func (st *runState) result() *Result {
	res := st.res
	return &res
}
