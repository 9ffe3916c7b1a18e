package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"partfinder/internal/domain"
	"partfinder/internal/port"
)

// extractWorkers bounds per-page extraction parallelism. Pages share no
// mutable state, so the only limit is CPU.
const extractWorkers = 4

// Catalog names one catalog to ingest.
type Catalog struct {
	Name     string
	Category string
	Path     string
}

// IngestResult contains the products and bookkeeping of one ingest run.
type IngestResult struct {
	Products       []domain.Product
	PagesProcessed int
	Errors         []string
}

// IngestUseCase extracts product records from catalog text sources.
type IngestUseCase struct {
	source    port.PageSource
	extractor port.Extractor
}

func NewIngestUseCase(source port.PageSource, extractor port.Extractor) *IngestUseCase {
	return &IngestUseCase{source: source, extractor: extractor}
}

// Ingest processes every catalog in order. A failed page or catalog is
// recorded and skipped; the run itself only fails on cancellation. Product
// order is catalog order, then page order, then discovery order within the
// page.
func (u *IngestUseCase) Ingest(ctx context.Context, catalogs []Catalog, progress func(processed, total int)) (*IngestResult, error) {
	result := &IngestResult{}

	type catalogPages struct {
		catalog Catalog
		pages   []domain.Page
	}

	var loaded []catalogPages
	totalPages := 0
	for _, cat := range catalogs {
		pages, warnings, err := u.source.Pages(cat.Path)
		for _, w := range warnings {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", cat.Name, w))
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", cat.Name, err))
			continue
		}
		loaded = append(loaded, catalogPages{catalog: cat, pages: pages})
		totalPages += len(pages)
	}

	processed := 0
	var mu sync.Mutex

	for _, cp := range loaded {
		perPage := make([][]domain.Product, len(cp.pages))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(extractWorkers)
		for i, page := range cp.pages {
			i, page := i, page
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				perPage[i] = u.extractor.Extract(page.Text, page.Number, cp.catalog.Name, cp.catalog.Category)

				mu.Lock()
				processed++
				if progress != nil {
					progress(processed, totalPages)
				}
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, products := range perPage {
			result.Products = append(result.Products, products...)
		}
		result.PagesProcessed += len(cp.pages)
	}

	return result, nil
}

// Stats summarizes an extracted product set.
func Stats(products []domain.Product) domain.CatalogStats {
	stats := domain.CatalogStats{
		TotalProducts: len(products),
		ByCategory:    make(map[string]int),
		ByCatalog:     make(map[string]int),
	}
	for _, p := range products {
		stats.ByCategory[p.Category]++
		stats.ByCatalog[p.CatalogSource]++
	}
	return stats
}

// Export writes the extracted products to products.json and products.csv
// under dir.
func Export(products []domain.Product, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "products.json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write products.json: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "products.csv"))
	if err != nil {
		return fmt.Errorf("failed to write products.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"product_id", "name", "description", "category", "reference_number", "page_number", "catalog_source", "additional_info"}); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			p.ProductID, p.Name, p.Description, p.Category,
			p.ReferenceNumber, strconv.Itoa(p.PageNumber), p.CatalogSource, p.AdditionalInfo,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
