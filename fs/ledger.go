package fs

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/awalczyk/billfetch"
	"github.com/spf13/afero"
)

// LedgerFileName is the name of the progress document inside the downloads
// root.
const LedgerFileName = "progress.json"

// Ensure Ledger implements billfetch.Ledger at compile time.
var _ billfetch.Ledger = (*Ledger)(nil)

// Ledger persists the run progress as a single pretty-printed JSON document.
// The document is always rewritten whole and replaced atomically, so a crash
// mid-write can only lose the current run's additions, never corrupt
// previously saved history.
type Ledger struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger
}

// NewLedger creates a Ledger backed by the document at path.
// A nil logger discards corruption warnings.
func NewLedger(fsys afero.Fs, path string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ledger{fs: fsys, path: path, logger: logger}
}

// Load reads the full entry sequence. A missing document yields an empty
// sequence. A corrupt document also yields an empty sequence: corruption is
// logged and the run proceeds fresh rather than aborting, since the ledger
// is rebuilt by subsequent saves.
func (l *Ledger) Load() ([]billfetch.LedgerEntry, error) {
	data, err := afero.ReadFile(l.fs, l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, billfetch.Errorf(billfetch.EINTERNAL, "cannot read progress file %s: %v", l.path, err)
	}

	var entries []billfetch.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("progress file unreadable, starting fresh",
			"path", l.path,
			"error", err,
		)
		return nil, nil
	}

	return entries, nil
}

// Save atomically overwrites the progress document with the complete entry
// sequence, pretty-formatted for human inspection.
func (l *Ledger) Save(entries []billfetch.LedgerEntry) error {
	if entries == nil {
		entries = []billfetch.LedgerEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return billfetch.Errorf(billfetch.EINTERNAL, "cannot encode progress: %v", err)
	}

	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return billfetch.Errorf(billfetch.EINTERNAL, "cannot create directory for %s: %v", l.path, err)
	}

	tmp := l.path + ".tmp"
	if err := afero.WriteFile(l.fs, tmp, data, 0o644); err != nil {
		_ = l.fs.Remove(tmp)
		return billfetch.Errorf(billfetch.EINTERNAL, "cannot write %s: %v", tmp, err)
	}

	if err := l.fs.Rename(tmp, l.path); err != nil {
		_ = l.fs.Remove(tmp)
		return billfetch.Errorf(billfetch.EINTERNAL, "cannot finalize %s: %v", l.path, err)
	}

	return nil
}
