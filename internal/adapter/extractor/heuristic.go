package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"partfinder/internal/domain"
)

var (
	// Reference-number shape seen across industrial catalogs: an alphabetic
	// prefix followed by digits, or a long digit run with a mandatory
	// alphanumeric suffix.
	refPattern = regexp.MustCompile(`\b([A-Z]{2,}\d{4,}-?[A-Z0-9]*|\d{5,}-?[A-Z0-9]+)\b`)

	// Capitalized word sequences, used as a product-name fallback.
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

	// Runs of all-caps words, used for page-level products.
	allCapsPattern = regexp.MustCompile(`\b[A-Z][A-Z\s]{3,20}\b`)
)

const (
	contextRadius  = 300
	maxDescription = 400
	maxInfo        = 200
	maxPageText    = 500
)

// Heuristic extracts product records from noisy catalog page text by
// scanning for reference-number shaped tokens. It implements port.Extractor.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Extract parses one page of catalog text into zero or more products.
// Each distinct reference on the page yields exactly one product; pages
// without references fall back to a single page-level product when there
// is enough text to describe one.
func (h *Heuristic) Extract(text string, page int, source, category string) []domain.Product {
	var products []domain.Product

	for _, ref := range findReferences(text) {
		ctx := contextAround(text, ref)
		products = append(products, domain.Product{
			ProductID:       fmt.Sprintf("%s-%s-P%d", categoryPrefix(category), ref, page),
			Name:            extractName(ctx, ref),
			Description:     extractDescription(ctx),
			Category:        category,
			ReferenceNumber: ref,
			PageNumber:      page,
			CatalogSource:   source,
			AdditionalInfo:  truncateRunes(ctx, maxInfo),
		})
	}

	if len(products) == 0 && len([]rune(text)) > 100 {
		products = append(products, pageLevelProduct(text, page, source, category))
	}

	return products
}

// findReferences returns the distinct reference-shaped tokens on the page
// in discovery order. Duplicates of the same token are dropped regardless
// of where they appear.
func findReferences(text string) []string {
	matches := refPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToUpper(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		refs = append(refs, m)
	}
	return refs
}

// contextAround returns a symmetric window of text around the first
// occurrence of ref, up to contextRadius characters on each side.
func contextAround(text, ref string) string {
	pos := strings.Index(text, ref)
	if pos == -1 {
		return ""
	}

	runes := []rune(text)
	at := len([]rune(text[:pos]))

	start := at - contextRadius
	if start < 0 {
		start = 0
	}
	end := at + contextRadius
	if end > len(runes) {
		end = len(runes)
	}

	return strings.TrimSpace(string(runes[start:end]))
}

// extractName derives a product name from the context around a reference.
// The line immediately above the reference is the most likely title; failing
// a plausible one, the first capitalized word sequences are used.
func extractName(context, ref string) string {
	lines := strings.Split(context, "\n")
	for i, line := range lines {
		if i == 0 || !strings.Contains(line, ref) {
			continue
		}
		prev := strings.TrimSpace(lines[i-1])
		if n := len([]rune(prev)); n > 5 && n < 100 {
			return prev
		}
	}

	if words := capitalizedPattern.FindAllString(context, -1); len(words) > 0 {
		if len(words) > 5 {
			words = words[:5]
		}
		return strings.Join(words, " ")
	}

	return "Product " + ref
}

// extractDescription collapses the context whitespace into a single line.
func extractDescription(context string) string {
	return truncateRunes(strings.Join(strings.Fields(context), " "), maxDescription)
}

// pageLevelProduct builds a single coarse product for a page that carries
// real text but no recognizable reference numbers.
func pageLevelProduct(text string, page int, source, category string) domain.Product {
	name := fmt.Sprintf("Product from page %d", page)
	if m := allCapsPattern.FindString(text); m != "" {
		name = strings.TrimSpace(m)
	}

	return domain.Product{
		ProductID:       fmt.Sprintf("%s-PAGE-%d", categoryPrefix(category), page),
		Name:            name,
		Description:     truncateRunes(text, maxPageText),
		Category:        category,
		ReferenceNumber: fmt.Sprintf("REF-PAGE-%d", page),
		PageNumber:      page,
		CatalogSource:   source,
		AdditionalInfo:  fmt.Sprintf("Full page %d content", page),
	}
}

func categoryPrefix(category string) string {
	runes := []rune(category)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
