package port

import "partfinder/internal/domain"

// PageSource yields per-page plain text for a named catalog. How the text
// got out of the original document (PDF decoding, OCR) is upstream of this
// interface.
type PageSource interface {
	// Pages returns the readable pages of the catalog at path in ascending
	// page order. Pages that cannot be read are skipped and reported in the
	// warnings slice; only a wholly unreadable catalog returns an error.
	Pages(path string) (pages []domain.Page, warnings []string, err error)
}
