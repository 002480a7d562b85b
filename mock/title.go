package mock

import (
	"github.com/awalczyk/billfetch"
)

var _ billfetch.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor is a mock implementation of billfetch.TitleExtractor.
type TitleExtractor struct {
	TitleFn func(data []byte) (string, error)
}

func (e *TitleExtractor) Title(data []byte) (string, error) {
	return e.TitleFn(data)
}
