package mock

import (
	"context"

	"github.com/awalczyk/billfetch"
)

var _ billfetch.Catalog = (*Catalog)(nil)

// Catalog is a mock implementation of billfetch.Catalog.
type Catalog struct {
	CreateRecordFn func(ctx context.Context, rec *billfetch.Record, data []byte) error
}

func (c *Catalog) CreateRecord(ctx context.Context, rec *billfetch.Record, data []byte) error {
	return c.CreateRecordFn(ctx, rec, data)
}
