package domain

// Product is a single catalog entry recovered from page text.
type Product struct {
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	ReferenceNumber string `json:"reference_number"`
	PageNumber      int    `json:"page_number"`
	CatalogSource   string `json:"catalog_source"`
	AdditionalInfo  string `json:"additional_info,omitempty"`
}

// Metadata is the flattened projection of a Product used for filtering
// search candidates without touching the Product itself.
type Metadata struct {
	ProductID string `json:"product_id"`
	Reference string `json:"reference"`
	Category  string `json:"category"`
	Page      int    `json:"page"`
	Source    string `json:"source"`
}

// SearchableDocument pairs a Product with its canonical text rendering.
// Content must be deterministic given the Product; the index cache
// fingerprint depends on that.
type SearchableDocument struct {
	Content  string   `json:"content"`
	Product  Product  `json:"product"`
	Metadata Metadata `json:"metadata"`
}

// SearchResult is one ranked hit from the retrieval engine.
type SearchResult struct {
	Product  Product  `json:"product"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
	Snippet  string   `json:"snippet,omitempty"`
}

// Recommendation is a co-purchase suggestion resolved to a Product.
type Recommendation struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// PurchaseTable is a decoded tabular purchase-history file. Column meaning
// is resolved by the recommender, not by the reader.
type PurchaseTable struct {
	Columns []string
	Rows    [][]string
}

// Page is the plain text of one catalog page, as produced by an upstream
// text-extraction source.
type Page struct {
	Number int
	Text   string
}

// CatalogStats summarizes one extraction run.
type CatalogStats struct {
	TotalProducts int            `json:"total_products"`
	ByCategory    map[string]int `json:"by_category"`
	ByCatalog     map[string]int `json:"by_catalog"`
}

// EngineStats reports the state of the search engine.
type EngineStats struct {
	Ready          bool           `json:"ready"`
	TotalDocuments int            `json:"total_documents"`
	IndexSize      int            `json:"index_size"`
	Dimension      int            `json:"dimension"`
	CacheExists    bool           `json:"cache_exists"`
	Categories     map[string]int `json:"categories,omitempty"`
}

// RecommenderStats reports the state of the association table.
type RecommenderStats struct {
	TotalProducts     int     `json:"total_products"`
	TotalAssociations int     `json:"total_associations"`
	AvgPerProduct     float64 `json:"avg_per_product"`
}
