// Package etree extracts display titles from bill XML documents.
package etree

import (
	"strings"

	"github.com/awalczyk/billfetch"
	"github.com/beevik/etree"
)

// Ensure TitleExtractor implements billfetch.TitleExtractor at compile time.
var _ billfetch.TitleExtractor = (*TitleExtractor)(nil)

// titlePaths are tried in order. Bill XML carries the official title either
// as Dublin Core metadata (dc:title) or in the form block (official-title),
// depending on the package vintage.
var titlePaths = []string{
	"//dc:title",
	"//official-title",
	"//docTitle",
}

// TitleExtractor pulls the official title out of a bill XML document.
type TitleExtractor struct{}

// NewTitleExtractor creates a new TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// Title extracts a title from a bill XML document.
func (e *TitleExtractor) Title(data []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", billfetch.Errorf(billfetch.EINVALID, "failed to parse XML: %v", err)
	}

	for _, path := range titlePaths {
		if el := doc.FindElement(path); el != nil {
			if title := clean(el.Text()); title != "" {
				return title, nil
			}
		}
	}

	return "", billfetch.Errorf(billfetch.ENOTFOUND, "no title found in XML document")
}

// clean collapses internal whitespace runs to single spaces and trims.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
