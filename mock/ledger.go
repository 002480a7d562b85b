package mock

import (
	"github.com/awalczyk/billfetch"
)

var _ billfetch.Ledger = (*Ledger)(nil)

// Ledger is a mock implementation of billfetch.Ledger.
type Ledger struct {
	LoadFn func() ([]billfetch.LedgerEntry, error)
	SaveFn func(entries []billfetch.LedgerEntry) error
}

func (l *Ledger) Load() ([]billfetch.LedgerEntry, error) {
	return l.LoadFn()
}

func (l *Ledger) Save(entries []billfetch.LedgerEntry) error {
	return l.SaveFn(entries)
}
