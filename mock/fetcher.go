package mock

import (
	"context"

	"github.com/awalczyk/billfetch"
)

var _ billfetch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of billfetch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, loc billfetch.Locator, id billfetch.BillID, skipExisting bool) (billfetch.Fetched, error)
}

func (f *Fetcher) Fetch(ctx context.Context, loc billfetch.Locator, id billfetch.BillID, skipExisting bool) (billfetch.Fetched, error) {
	return f.FetchFn(ctx, loc, id, skipExisting)
}
