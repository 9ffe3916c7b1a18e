package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"partfinder/internal/domain"
	"partfinder/internal/port"
	"partfinder/internal/recommend"
	"partfinder/internal/search"
)

// QueryType classifies what kind of query was answered.
type QueryType string

const (
	QueryTypeSearch       QueryType = "product_search"
	QueryTypeGreeting     QueryType = "greeting"
	QueryTypeHelp         QueryType = "help"
	QueryTypeOutOfContext QueryType = "out_of_context"
)

// QueryResult is the orchestrated answer to one customer query.
type QueryResult struct {
	Response        string                  `json:"response"`
	Type            QueryType               `json:"query_type"`
	Products        []domain.Product        `json:"products,omitempty"`
	Recommendations []domain.Recommendation `json:"recommendations,omitempty"`
	Elapsed         time.Duration           `json:"-"`
}

// Query shaped like a catalog reference number gets the exact-lookup path.
var referenceQueryPattern = regexp.MustCompile(`^[A-Z]{2,}\d{4,}-?[A-Z0-9]*$|^\d{5,}-?[A-Z0-9]+$`)

var greetingWords = map[string]bool{"hi": true, "hello": true, "hey": true, "greetings": true}

// QueryUseCase joins retrieval, recommendations and response generation.
// The enhanced responder is optional; the fallback is not and never fails.
type QueryUseCase struct {
	engine      *search.Engine
	recommender *recommend.Recommender
	responder   port.Responder
	fallback    port.Responder
	products    []domain.Product
	log         *slog.Logger
}

func NewQueryUseCase(
	engine *search.Engine,
	recommender *recommend.Recommender,
	responder port.Responder,
	fallback port.Responder,
	products []domain.Product,
	log *slog.Logger,
) *QueryUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &QueryUseCase{
		engine:      engine,
		recommender: recommender,
		responder:   responder,
		fallback:    fallback,
		products:    products,
		log:         log,
	}
}

// Process answers one free-text customer query.
func (u *QueryUseCase) Process(ctx context.Context, query string) *QueryResult {
	start := time.Now()
	trimmed := strings.TrimSpace(query)
	lower := strings.ToLower(trimmed)

	if isGreeting(lower) {
		return &QueryResult{Response: greetingResponse, Type: QueryTypeGreeting, Elapsed: time.Since(start)}
	}
	if isHelpRequest(lower) {
		return &QueryResult{Response: helpResponse, Type: QueryTypeHelp, Elapsed: time.Since(start)}
	}

	if referenceQueryPattern.MatchString(strings.ToUpper(trimmed)) {
		if result, ok := u.referenceLookup(strings.ToUpper(trimmed)); ok {
			result.Elapsed = time.Since(start)
			return result
		}
		// Unknown reference, fall through to semantic search.
	}

	result := u.semanticSearch(ctx, trimmed)
	result.Elapsed = time.Since(start)
	return result
}

func (u *QueryUseCase) referenceLookup(reference string) (*QueryResult, bool) {
	hit, ok := u.engine.SearchByReference(reference)
	if !ok {
		return nil, false
	}

	recs := u.recommender.RecommendationsWithProducts(hit.Product.ReferenceNumber, u.products, 5)

	return &QueryResult{
		Response:        referenceResponse(hit.Product, recs),
		Type:            QueryTypeSearch,
		Products:        []domain.Product{hit.Product},
		Recommendations: recs,
	}, true
}

func (u *QueryUseCase) semanticSearch(ctx context.Context, query string) *QueryResult {
	results := u.engine.Search(ctx, query, 0, "")
	if len(results) == 0 {
		response, _ := u.fallback.Respond(ctx, port.ResponderInput{Query: query})
		return &QueryResult{Response: response, Type: QueryTypeOutOfContext}
	}

	products := make([]domain.Product, len(results))
	for i, r := range results {
		products[i] = r.Product
	}

	recs := u.recommender.RecommendationsWithProducts(products[0].ReferenceNumber, u.products, 3)

	in := port.ResponderInput{Query: query, Results: results, Recommendations: recs}
	response := u.respond(ctx, in)

	return &QueryResult{
		Response:        response,
		Type:            QueryTypeSearch,
		Products:        products,
		Recommendations: recs,
	}
}

// respond tries the enhanced responder, falling back to the deterministic
// template on any failure.
func (u *QueryUseCase) respond(ctx context.Context, in port.ResponderInput) string {
	if u.responder != nil {
		if response, err := u.responder.Respond(ctx, in); err == nil {
			return response
		} else {
			u.log.Warn("responder failed, using template fallback",
				"model", u.responder.ModelName(), "error", err)
		}
	}

	response, _ := u.fallback.Respond(ctx, in)
	return response
}

func isGreeting(query string) bool {
	for _, word := range strings.Fields(query) {
		if greetingWords[strings.Trim(word, ".,!?")] {
			return true
		}
	}
	return false
}

func isHelpRequest(query string) bool {
	if strings.Contains(query, "how to") || strings.Contains(query, "what can") {
		return true
	}
	for _, word := range strings.Fields(query) {
		if strings.Trim(word, ".,!?") == "help" {
			return true
		}
	}
	return false
}

// referenceResponse renders an exact-lookup hit. It is deterministic, so
// reference lookups behave the same with or without a text-generation
// backend.
func referenceResponse(p domain.Product, recs []domain.Recommendation) string {
	var b strings.Builder

	desc := p.Description
	if len([]rune(desc)) > 300 {
		desc = string([]rune(desc)[:300]) + "..."
	}

	fmt.Fprintf(&b, "**Found Product: %s**\n\n", p.Name)
	fmt.Fprintf(&b, "**Reference:** %s\n", p.ReferenceNumber)
	fmt.Fprintf(&b, "**Category:** %s\n", p.Category)
	fmt.Fprintf(&b, "**Location:** Page %d in %s\n\n", p.PageNumber, p.CatalogSource)
	fmt.Fprintf(&b, "**Description:**\n%s\n", desc)

	if len(recs) > 0 {
		b.WriteString("\n**Frequently Bought Together:**\n")
		for _, rec := range recs {
			fmt.Fprintf(&b, "- %s (%s) - %s\n", rec.Product.Name, rec.Product.ReferenceNumber, rec.Reason)
		}
	}

	return b.String()
}

const greetingResponse = `**Welcome to Industrial Parts Product Finder!**

I'm here to help you find the right products from our catalogs.

**How to use:**
- Describe what you're looking for (e.g., "safety warning label")
- Mention your use case (e.g., "label for forklift")
- Provide a reference number for exact matches
- Ask about product recommendations

What can I help you find today?`

const helpResponse = `**How to Find Products**

**Search Methods:**
1. Describe what you need: "fire safety label", "danger warning sign"
2. Describe your scenario: "I need a label for electrical equipment"
3. Use reference numbers: just type the reference number directly
4. Browse by category: "show me labels"

**Tips:**
- Be specific about colors, sizes, or purposes
- Mention the equipment or application
- Use simple, clear language

After finding a product, frequently bought together items are suggested.`
