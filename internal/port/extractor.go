package port

import "partfinder/internal/domain"

// Extractor turns raw catalog page text into structured product records.
// Implementations are best-effort: noisy input yields fewer or coarser
// records, never an error for the page itself.
type Extractor interface {
	// Extract parses one page of catalog text. page is 1-based; source and
	// category describe the originating catalog. Discovery order within the
	// page is preserved in the returned slice.
	Extract(text string, page int, source, category string) []domain.Product
}
