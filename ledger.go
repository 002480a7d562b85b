package billfetch

// LedgerEntry records one completed bill: its identifier, display title, and
// the local path written for each fetched format. A candidate becomes a
// ledger entry only after at least one format downloaded successfully.
type LedgerEntry struct {
	BillID string            `json:"bill_id"`
	Title  string            `json:"title"`
	Files  map[Format]string `json:"files"`
}

// Ledger is the durable record of completed bills and the single source of
// truth for resumability and deduplication.
//
// Load returns the ordered entry sequence; a missing or corrupt backing
// document yields an empty sequence, never an error (corruption is reported
// by the implementation and treated as a fresh start). Save overwrites the
// backing document atomically with the complete accumulated sequence for the
// run, never a delta, so a torn write can only lose the current run's
// additions and never corrupts previously saved history.
type Ledger interface {
	Load() ([]LedgerEntry, error)
	Save(entries []LedgerEntry) error
}

// CompletedIDs derives the set of already-completed bill identifiers from a
// loaded entry sequence, for O(1) skip checks.
func CompletedIDs(entries []LedgerEntry) map[string]bool {
	done := make(map[string]bool, len(entries))
	for _, e := range entries {
		done[e.BillID] = true
	}
	return done
}
