package domain

import "fmt"

// searchableText renders a Product into the canonical text used for
// embedding. Field order is fixed; the rendering is pure so that the index
// cache fingerprint stays stable across runs.
func searchableText(p Product) string {
	return fmt.Sprintf(`Product Name: %s
Reference Number: %s
Category: %s
Description: %s
Additional Information: %s
Found on page %d of %s
Product ID: %s`,
		p.Name,
		p.ReferenceNumber,
		p.Category,
		p.Description,
		p.AdditionalInfo,
		p.PageNumber,
		p.CatalogSource,
		p.ProductID,
	)
}

// NewSearchableDocument projects a Product into its searchable form.
func NewSearchableDocument(p Product) SearchableDocument {
	return SearchableDocument{
		Content: searchableText(p),
		Product: p,
		Metadata: Metadata{
			ProductID: p.ProductID,
			Reference: p.ReferenceNumber,
			Category:  p.Category,
			Page:      p.PageNumber,
			Source:    p.CatalogSource,
		},
	}
}

// BuildDocuments converts products to searchable documents, preserving order.
func BuildDocuments(products []Product) []SearchableDocument {
	docs := make([]SearchableDocument, len(products))
	for i, p := range products {
		docs[i] = NewSearchableDocument(p)
	}
	return docs
}
