// Package goquery extracts display titles from rendered bill pages.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/awalczyk/billfetch"
)

// Ensure TitleExtractor implements billfetch.TitleExtractor at compile time.
var _ billfetch.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor pulls a document title out of rendered HTML.
// It prefers the document <title>, falling back to the first <h1>.
type TitleExtractor struct{}

// NewTitleExtractor creates a new TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// Title extracts a title from an HTML document.
func (e *TitleExtractor) Title(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", billfetch.Errorf(billfetch.EINVALID, "failed to parse HTML: %v", err)
	}

	if title := clean(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}
	if title := clean(doc.Find("h1").First().Text()); title != "" {
		return title, nil
	}

	return "", billfetch.Errorf(billfetch.ENOTFOUND, "no title found in HTML document")
}

// clean collapses internal whitespace runs to single spaces and trims.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
