// Package fs provides filesystem-backed storage for downloaded bill
// documents and the progress ledger. All implementations operate on an
// afero.Fs so tests can run against an in-memory filesystem.
package fs

import (
	"path/filepath"

	"github.com/awalczyk/billfetch"
	"github.com/spf13/afero"
)

// Ensure Store implements billfetch.Store at compile time.
var _ billfetch.Store = (*Store)(nil)

// Store persists document bytes under a deterministic layout:
//
//	<root>/<bill-id>/<format>/<bill-id><ext>
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore creates a Store rooted at root on the given filesystem.
// Use afero.NewOsFs() in production and afero.NewMemMapFs() in tests.
func NewStore(fsys afero.Fs, root string) *Store {
	return &Store{fs: fsys, root: root}
}

// EnsureRoot creates the storage root. Failure here means no progress can
// be made at all, so callers treat it as fatal.
func (s *Store) EnsureRoot() error {
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return billfetch.Errorf(billfetch.EINTERNAL, "cannot create downloads directory %s: %v", s.root, err)
	}
	return nil
}

// Path returns the storage path for one format of a bill.
func (s *Store) Path(id billfetch.BillID, format billfetch.Format) string {
	name := id.String()
	return filepath.Join(s.root, name, string(format), name+format.Ext())
}

// Exists reports whether the file for one format of a bill is present.
func (s *Store) Exists(id billfetch.BillID, format billfetch.Format) (bool, error) {
	ok, err := afero.Exists(s.fs, s.Path(id, format))
	if err != nil {
		return false, billfetch.Errorf(billfetch.EINTERNAL, "cannot stat %s: %v", s.Path(id, format), err)
	}
	return ok, nil
}

// Write persists data at the deterministic path, creating parent directories
// first. The bytes are written to a temporary sibling and renamed into place
// so a failure never leaves a partial file at the final path.
func (s *Store) Write(id billfetch.BillID, format billfetch.Format, data []byte) (string, error) {
	path := s.Path(id, format)

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", billfetch.Errorf(billfetch.EINTERNAL, "cannot create directory for %s: %v", path, err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		_ = s.fs.Remove(tmp)
		return "", billfetch.Errorf(billfetch.EINTERNAL, "cannot write %s: %v", tmp, err)
	}

	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return "", billfetch.Errorf(billfetch.EINTERNAL, "cannot finalize %s: %v", path, err)
	}

	return path, nil
}
