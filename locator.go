package billfetch

import "fmt"

// DefaultBaseURL is the govinfo document repository root.
const DefaultBaseURL = "https://www.govinfo.gov"

// Format is a closed-set tag for a document format served by the repository.
type Format string

// Document formats in their canonical order.
const (
	FormatPDF Format = "pdf" // primary document
	FormatHTM Format = "htm" // rendered page
	FormatXML Format = "xml" // structured markup
)

// AllFormats returns every document format in canonical order.
func AllFormats() []Format {
	return []Format{FormatPDF, FormatHTM, FormatXML}
}

// ValidFormat reports whether f is a member of the closed format set.
func ValidFormat(f Format) bool {
	for _, known := range AllFormats() {
		if f == known {
			return true
		}
	}
	return false
}

// Ext returns the on-disk file extension for the format. The rendered page
// is stored as .html even though its format tag is "htm"; the other formats
// use the tag verbatim.
func (f Format) Ext() string {
	if f == FormatHTM {
		return ".html"
	}
	return "." + string(f)
}

// Locator is a fully resolved external address for one document format.
// It is derived deterministically from a BillID and never mutated.
type Locator struct {
	URL    string
	Format Format
}

// pathTemplates maps each format to its path segment and file extension
// under /content/pkg/<id>/.
var pathTemplates = map[Format]struct{ dir, ext string }{
	FormatPDF: {"pdf", "pdf"},
	FormatHTM: {"html", "htm"},
	FormatXML: {"xml", "xml"},
}

// BuildLocator derives the locator for one format of a bill. The identifier
// embedded in the URL round-trips back to the same BillID via
// ParseBillIDFromURL, which the ledger and file naming rely on.
func BuildLocator(baseURL string, id BillID, format Format) Locator {
	t := pathTemplates[format]
	return Locator{
		URL:    fmt.Sprintf("%s/content/pkg/%s/%s/%s.%s", baseURL, id, t.dir, id, t.ext),
		Format: format,
	}
}

// PDFLocator derives the primary-document locator for a bill. This is the
// only locator the probe-then-fetch path in enumeration mode probes.
func PDFLocator(baseURL string, id BillID) Locator {
	return BuildLocator(baseURL, id, FormatPDF)
}

// BuildLocators derives locators for each requested format of a bill,
// keyed by format.
func BuildLocators(baseURL string, id BillID, formats ...Format) map[Format]Locator {
	locs := make(map[Format]Locator, len(formats))
	for _, f := range formats {
		locs[f] = BuildLocator(baseURL, id, f)
	}
	return locs
}
