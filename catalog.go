package billfetch

import (
	"context"
	"time"
)

// Record is one downloaded file in the structured catalog: the bill it
// belongs to, where it landed on disk, and integrity metadata. The catalog
// is an index for later structured processing; the progress ledger remains
// the source of truth for resumability.
type Record struct {
	ID          string    `json:"id"`
	BillID      string    `json:"billId"`
	Format      Format    `json:"format"`
	FilePath    string    `json:"filePath"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	ContentHash string    `json:"contentHash"`
	Size        int64     `json:"size"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.BillID == "" {
		return Errorf(EINVALID, "record bill ID required")
	}
	if !ValidFormat(r.Format) {
		return Errorf(EINVALID, "record format %q unknown", r.Format)
	}
	if r.FilePath == "" {
		return Errorf(EINVALID, "record file path required")
	}
	return nil
}

// Catalog indexes downloaded files for structured access.
type Catalog interface {
	// CreateRecord stores a new catalog record for the given file bytes,
	// assigning its ID, content hash, size, and fetch timestamp.
	CreateRecord(ctx context.Context, rec *Record, data []byte) error
}
