package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"partfinder/internal/adapter/responder"
	"partfinder/internal/adapter/store"
	"partfinder/internal/domain"
	"partfinder/internal/port"
	"partfinder/internal/recommend"
	"partfinder/internal/search"
)

type fixedEmbedder struct {
	vectors map[string][]float32
}

func (e *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := e.vectors[text]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = append([]float32(nil), v...)
	}
	return out, nil
}

func (e *fixedEmbedder) Dimension() int    { return 3 }
func (e *fixedEmbedder) ModelName() string { return "fixed" }

type failingResponder struct{}

func (failingResponder) Respond(context.Context, port.ResponderInput) (string, error) {
	return "", errors.New("backend down")
}
func (failingResponder) ModelName() string { return "failing" }

type cannedResponder struct{ text string }

func (r cannedResponder) Respond(context.Context, port.ResponderInput) (string, error) {
	return r.text, nil
}
func (cannedResponder) ModelName() string { return "canned" }

func queryProducts() []domain.Product {
	return []domain.Product{
		{
			ProductID: "LAB-AB1234-X-P3", Name: "SAFETY WARNING LABEL", ReferenceNumber: "AB1234-X",
			Category: "Labels", Description: "Use on electrical panels.", PageNumber: 3, CatalogSource: "cat.pdf",
		},
		{
			ProductID: "HAN-EF9012-P9", Name: "PALLET TRUCK", ReferenceNumber: "EF9012",
			Category: "Handling Equipment", Description: "Manual pallet truck.", PageNumber: 9, CatalogSource: "handling.pdf",
		},
	}
}

func newQueryFixture(t *testing.T, enhanced port.Responder) *QueryUseCase {
	t.Helper()

	products := queryProducts()
	docs := domain.BuildDocuments(products)

	embedder := &fixedEmbedder{vectors: map[string][]float32{
		docs[0].Content: {1, 0, 0},
		docs[1].Content: {0, 1, 0},
		"safety label":  {1, 0, 0},
		"quantum physics homework": {0, 0, 1},
	}}

	cache := store.NewIndexCache(filepath.Join(t.TempDir(), "index.db"))
	engine := search.NewEngine(embedder, cache, search.DefaultParams(), nil)
	if err := engine.Build(context.Background(), docs); err != nil {
		t.Fatal(err)
	}

	recommender := recommend.NewRecommender(recommend.DefaultParams())
	err := recommender.Load(domain.PurchaseTable{
		Columns: []string{"product_id_1", "product_id_2", "frequency"},
		Rows:    [][]string{{"AB1234-X", "EF9012", "6"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	return NewQueryUseCase(engine, recommender, enhanced, responder.NewTemplateResponder(), products, nil)
}

func TestProcessGreeting(t *testing.T) {
	u := newQueryFixture(t, nil)

	for _, query := range []string{"hi", "Hello there!", "hey, anyone around?"} {
		result := u.Process(context.Background(), query)
		if result.Type != QueryTypeGreeting {
			t.Errorf("Process(%q) type = %s", query, result.Type)
		}
		if !strings.Contains(result.Response, "Welcome") {
			t.Errorf("greeting response missing welcome text")
		}
	}
}

func TestProcessHelp(t *testing.T) {
	u := newQueryFixture(t, nil)

	for _, query := range []string{"help", "how to search?", "what can you do"} {
		result := u.Process(context.Background(), query)
		if result.Type != QueryTypeHelp {
			t.Errorf("Process(%q) type = %s", query, result.Type)
		}
	}
}

func TestProcessReferenceLookup(t *testing.T) {
	u := newQueryFixture(t, nil)

	result := u.Process(context.Background(), "ab1234-x")
	if result.Type != QueryTypeSearch {
		t.Fatalf("type = %s", result.Type)
	}
	if len(result.Products) != 1 || result.Products[0].ReferenceNumber != "AB1234-X" {
		t.Fatalf("products = %v", result.Products)
	}
	if !strings.Contains(result.Response, "SAFETY WARNING LABEL") {
		t.Error("response missing product name")
	}
	if !strings.Contains(result.Response, "AB1234-X") {
		t.Error("response missing reference")
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Product.ReferenceNumber != "EF9012" {
		t.Errorf("recommendations = %v", result.Recommendations)
	}
	if !strings.Contains(result.Response, "Frequently Bought Together") {
		t.Error("response missing recommendations section")
	}
}

func TestProcessUnknownReferenceFallsThroughToSearch(t *testing.T) {
	u := newQueryFixture(t, nil)

	// Reference-shaped but unknown; the semantic path still answers.
	result := u.Process(context.Background(), "ZZ99990")
	if result.Type != QueryTypeSearch && result.Type != QueryTypeOutOfContext {
		t.Errorf("type = %s", result.Type)
	}
}

func TestProcessSemanticSearch(t *testing.T) {
	u := newQueryFixture(t, nil)

	result := u.Process(context.Background(), "safety label")
	if result.Type != QueryTypeSearch {
		t.Fatalf("type = %s", result.Type)
	}
	if len(result.Products) == 0 || result.Products[0].ProductID != "LAB-AB1234-X-P3" {
		t.Fatalf("products = %v", result.Products)
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("recommendations = %v", result.Recommendations)
	}
	if !strings.Contains(result.Response, "SAFETY WARNING LABEL") {
		t.Error("template response missing product name")
	}
}

func TestProcessOutOfContext(t *testing.T) {
	u := newQueryFixture(t, nil)

	result := u.Process(context.Background(), "quantum physics homework")
	if result.Type != QueryTypeOutOfContext {
		t.Fatalf("type = %s", result.Type)
	}
	if len(result.Products) != 0 {
		t.Errorf("out-of-context result carries products: %v", result.Products)
	}
	if !strings.Contains(result.Response, "No products found") {
		t.Error("expected the no-results response")
	}
}

func TestProcessEnhancedResponderUsed(t *testing.T) {
	u := newQueryFixture(t, cannedResponder{text: "model answer"})

	result := u.Process(context.Background(), "safety label")
	if result.Response != "model answer" {
		t.Errorf("response = %q", result.Response)
	}
}

func TestProcessResponderFailureFallsBack(t *testing.T) {
	u := newQueryFixture(t, failingResponder{})

	result := u.Process(context.Background(), "safety label")
	if result.Type != QueryTypeSearch {
		t.Fatalf("type = %s", result.Type)
	}
	if !strings.Contains(result.Response, "Search Results for:") {
		t.Errorf("fallback template not used: %q", result.Response)
	}
	if !strings.Contains(result.Response, "SAFETY WARNING LABEL") {
		t.Error("fallback response missing product facts")
	}
}

func TestReferenceQueryPattern(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"AB1234-X", true},
		{"CD5678", true},
		{"90123-A", true},
		{"12345", false},
		{"A1234", false},
		{"safety label", false},
	}
	for _, tt := range tests {
		if got := referenceQueryPattern.MatchString(tt.query); got != tt.want {
			t.Errorf("pattern match %q = %v, want %v", tt.query, got, tt.want)
		}
	}
}
