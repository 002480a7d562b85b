package mock

import (
	"github.com/awalczyk/billfetch"
)

var _ billfetch.Store = (*Store)(nil)

// Store is a mock implementation of billfetch.Store.
type Store struct {
	PathFn   func(id billfetch.BillID, format billfetch.Format) string
	ExistsFn func(id billfetch.BillID, format billfetch.Format) (bool, error)
	WriteFn  func(id billfetch.BillID, format billfetch.Format, data []byte) (string, error)
}

func (s *Store) Path(id billfetch.BillID, format billfetch.Format) string {
	return s.PathFn(id, format)
}

func (s *Store) Exists(id billfetch.BillID, format billfetch.Format) (bool, error) {
	return s.ExistsFn(id, format)
}

func (s *Store) Write(id billfetch.BillID, format billfetch.Format, data []byte) (string, error) {
	return s.WriteFn(id, format, data)
}
