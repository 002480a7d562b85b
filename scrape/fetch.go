// Package scrape orchestrates the bill retrieval pipeline: enumerating
// candidate identifiers, probing which packages exist, downloading confirmed
// documents, and recording completed bills in the progress ledger.
package scrape

import (
	"context"

	"github.com/awalczyk/billfetch"
)

// Ensure Fetcher implements billfetch.Fetcher at compile time.
var _ billfetch.Fetcher = (*Fetcher)(nil)

// Fetcher downloads one format of a bill and persists it through the store.
type Fetcher struct {
	Client billfetch.Downloader
	Store  billfetch.Store
}

// NewFetcher creates a Fetcher from a downloader and a store.
func NewFetcher(client billfetch.Downloader, store billfetch.Store) *Fetcher {
	return &Fetcher{Client: client, Store: store}
}

// Fetch retrieves the document at loc and writes it to the deterministic
// storage path for (id, loc.Format). When skipExisting is set and the file
// is already present, the existing path is returned without a network call.
func (f *Fetcher) Fetch(ctx context.Context, loc billfetch.Locator, id billfetch.BillID, skipExisting bool) (billfetch.Fetched, error) {
	if skipExisting {
		exists, err := f.Store.Exists(id, loc.Format)
		if err != nil {
			return billfetch.Fetched{}, err
		}
		if exists {
			return billfetch.Fetched{Path: f.Store.Path(id, loc.Format)}, nil
		}
	}

	data, err := f.Client.Download(ctx, loc.URL)
	if err != nil {
		return billfetch.Fetched{}, err
	}

	path, err := f.Store.Write(id, loc.Format, data)
	if err != nil {
		return billfetch.Fetched{}, err
	}

	return billfetch.Fetched{Path: path, Data: data}, nil
}
