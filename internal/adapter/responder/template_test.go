package responder

import (
	"context"
	"strings"
	"testing"

	"partfinder/internal/domain"
	"partfinder/internal/port"
)

func sampleInput() port.ResponderInput {
	return port.ResponderInput{
		Query: "safety label",
		Results: []domain.SearchResult{
			{
				Product: domain.Product{
					ProductID: "LAB-AB1234-X-P3", Name: "SAFETY WARNING LABEL",
					ReferenceNumber: "AB1234-X", Category: "Labels",
					Description: "Use on electrical panels.", PageNumber: 3, CatalogSource: "cat.pdf",
				},
				Score: 0.87,
			},
		},
		Recommendations: []domain.Recommendation{
			{
				Product: domain.Product{Name: "PALLET TRUCK", ReferenceNumber: "EF9012"},
				Score:   6,
				Reason:  "Frequently bought together (6 times)",
			},
		},
	}
}

func TestTemplateResponseCarriesProductFacts(t *testing.T) {
	got, err := NewTemplateResponder().Respond(context.Background(), sampleInput())
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`"safety label"`,
		"SAFETY WARNING LABEL",
		"AB1234-X",
		"Labels",
		"Page: 3 in cat.pdf",
		"Match: 87%",
		"Use on electrical panels.",
		"Customers Also Bought",
		"PALLET TRUCK",
		"EF9012",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("response missing %q:\n%s", want, got)
		}
	}
}

func TestTemplateResponseCapsResultsAtThree(t *testing.T) {
	in := sampleInput()
	for i := 0; i < 5; i++ {
		in.Results = append(in.Results, in.Results[0])
	}

	got, err := NewTemplateResponder().Respond(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(got, "**4.") {
		t.Error("more than three results rendered")
	}
	if !strings.Contains(got, "Found 6 matching products") {
		t.Error("total count should reflect all results")
	}
}

func TestTemplateResponseTruncatesLongDescriptions(t *testing.T) {
	in := sampleInput()
	in.Results[0].Product.Description = strings.Repeat("x", 400)

	got, err := NewTemplateResponder().Respond(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(got, strings.Repeat("x", 150)+"...") {
		t.Error("long description not truncated")
	}
	if strings.Contains(got, strings.Repeat("x", 151)) {
		t.Error("description exceeds truncation bound")
	}
}

func TestTemplateNoResults(t *testing.T) {
	got, err := NewTemplateResponder().Respond(context.Background(), port.ResponderInput{Query: "quantum homework"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(got, "No products found") {
		t.Errorf("unexpected no-results response: %q", got)
	}
	if !strings.Contains(got, `"quantum homework"`) {
		t.Error("response should echo the query")
	}
}
