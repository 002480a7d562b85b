package billfetch

import "context"

// Downloader retrieves the full byte content of a URL.
// A non-success status or network failure returns an ETRANSPORT error.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Store persists document bytes under a deterministic layout:
//
//	<root>/<bill-id>/<format>/<bill-id><ext>
//
// Writes are all-or-nothing: a failure mid-write must never leave a partial
// file at the final path.
type Store interface {
	// Path returns the storage path for one format of a bill without
	// touching the filesystem.
	Path(id BillID, format Format) string

	// Exists reports whether the file for one format of a bill is already
	// present.
	Exists(id BillID, format Format) (bool, error)

	// Write persists data at the deterministic path, creating any missing
	// parent directories, and returns the path written.
	Write(id BillID, format Format, data []byte) (string, error)
}

// Fetched describes one persisted document file.
type Fetched struct {
	// Path is the local storage path of the file.
	Path string

	// Data holds the downloaded bytes. It is nil when the fetch was
	// short-circuited because the file already existed.
	Data []byte
}

// Fetcher retrieves one format of a confirmed bill and persists it.
//
// When skipExisting is set and the target path already exists, the existing
// path is returned without any network call, making repeated runs idempotent.
type Fetcher interface {
	Fetch(ctx context.Context, loc Locator, id BillID, skipExisting bool) (Fetched, error)
}
