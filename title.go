package billfetch

// TitleExtractor pulls a human-readable document title out of a fetched
// body. Implementations exist for bill XML (etree/) and rendered HTML
// (goquery/); the PDF format has no extractor and keeps the placeholder
// title. Extraction is best-effort: a failure falls back to
// BillID.DisplayTitle and never fails the run.
type TitleExtractor interface {
	Title(data []byte) (string, error)
}
