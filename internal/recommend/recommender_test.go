package recommend

import (
	"errors"
	"reflect"
	"testing"

	"partfinder/internal/domain"
)

func loadTable(t *testing.T, columns []string, rows [][]string) *Recommender {
	t.Helper()
	r := NewRecommender(DefaultParams())
	if err := r.Load(domain.PurchaseTable{Columns: columns, Rows: rows}); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRecommendationsFilterByMinScore(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"A", "B", "3"},
			{"A", "C", "1"},
		},
	)

	got := r.Recommendations("A", 5)
	want := []Scored{{Ref: "B", Score: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommendations(A) = %v, want %v", got, want)
	}
}

func TestAssociationsAreSymmetric(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{{"A", "B", "4"}},
	)

	forward := r.Recommendations("A", 5)
	backward := r.Recommendations("B", 5)

	if len(forward) != 1 || forward[0].Ref != "B" || forward[0].Score != 4 {
		t.Errorf("forward = %v", forward)
	}
	if len(backward) != 1 || backward[0].Ref != "A" || backward[0].Score != 4 {
		t.Errorf("backward = %v", backward)
	}
}

func TestRepeatedPairsAccumulate(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"A", "B", "2"},
			{"A", "B", "3"},
		},
	)

	got := r.Recommendations("A", 5)
	if len(got) != 1 || got[0].Score != 5 {
		t.Errorf("expected accumulated score 5, got %v", got)
	}
}

func TestRecommendationsSortedAndCapped(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"A", "B", "2"},
			{"A", "C", "7"},
			{"A", "D", "4"},
			{"A", "E", "7"},
		},
	)

	got := r.Recommendations("A", 3)
	want := []Scored{{Ref: "C", Score: 7}, {Ref: "E", Score: 7}, {Ref: "D", Score: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestColumnConventions(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		row     []string
	}{
		{"source_target_count", []string{"source_product", "target_product", "count"}, []string{"A", "B", "3"}},
		{"item_a_item_b", []string{"item_a", "item_b", "frequency"}, []string{"A", "B", "3"}},
		{"labels_handling", []string{"labels_product", "handling_product", "purchase_count"}, []string{"A", "B", "3"}},
		{"uppercase_header", []string{"Product_ID_1", " Product_ID_2 ", "Frequency"}, []string{"A", "B", "3"}},
		{"positional_fallback", []string{"first", "second", "third"}, []string{"A", "B", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := loadTable(t, tt.columns, [][]string{tt.row})
			got := r.Recommendations("A", 5)
			if len(got) != 1 || got[0].Ref != "B" || got[0].Score != 3 {
				t.Errorf("columns %v: got %v", tt.columns, got)
			}
		})
	}
}

func TestTwoColumnTableDefaultsWeight(t *testing.T) {
	r := loadTable(t,
		[]string{"left", "right"},
		[][]string{
			{"A", "B"},
			{"A", "B"},
			{"A", "B"},
		},
	)

	got := r.Recommendations("A", 5)
	if len(got) != 1 || got[0].Score != 3 {
		t.Errorf("expected 3 unit-weight rows to sum to 3, got %v", got)
	}
}

func TestUnparseableFrequencyCountsAsOne(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"A", "B", "often"},
			{"A", "B", "2"},
		},
	)

	got := r.Recommendations("A", 5)
	if len(got) != 1 || got[0].Score != 3 {
		t.Errorf("expected score 3 (1 default + 2), got %v", got)
	}
}

func TestSingleColumnTableRejected(t *testing.T) {
	r := NewRecommender(DefaultParams())
	err := r.Load(domain.PurchaseTable{Columns: []string{"only"}, Rows: [][]string{{"A"}}})
	if !errors.Is(err, ErrTooFewColumns) {
		t.Errorf("expected ErrTooFewColumns, got %v", err)
	}
	if r.Ready() {
		t.Error("recommender should not be ready after failed load")
	}
}

func TestBlankAndShortRowsSkipped(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"", "B", "9"},
			{"A", "  ", "9"},
			{"A"},
			{"A", "B", "3"},
		},
	)

	got := r.Recommendations("A", 5)
	if len(got) != 1 || got[0].Score != 3 {
		t.Errorf("malformed rows leaked into associations: %v", got)
	}
}

func TestFuzzyKeyResolution(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"LAB-AB1234-X-P3", "HAN-EF9012-P9", "6"},
		},
	)

	// Partial reference resolves through substring matching.
	got := r.Recommendations("AB1234-X", 5)
	if len(got) != 1 || got[0].Ref != "HAN-EF9012-P9" {
		t.Errorf("fuzzy resolution failed: %v", got)
	}

	if got := r.Recommendations("ZZ9999", 5); len(got) != 0 {
		t.Errorf("unknown reference should resolve to nothing, got %v", got)
	}
}

func TestFuzzyResolutionPrefersShortestThenLexicographic(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"AB1234-XL", "LONG", "5"},
			{"AB1234-X", "SHORT", "5"},
		},
	)

	got := r.Recommendations("AB1234", 5)
	if len(got) != 1 || got[0].Ref != "SHORT" {
		t.Errorf("expected shortest matching key to win, got %v", got)
	}
}

func TestRecommendationsWithProducts(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"AB1234-X", "EF9012", "6"},
			{"AB1234-X", "UNKNOWN", "9"},
		},
	)

	products := []domain.Product{
		{ProductID: "HAN-EF9012-P9", Name: "PALLET TRUCK", ReferenceNumber: "EF9012", Category: "Handling Equipment"},
	}

	got := r.RecommendationsWithProducts("AB1234-X", products, 5)
	if len(got) != 1 {
		t.Fatalf("expected 1 resolvable recommendation, got %d", len(got))
	}
	if got[0].Product.ProductID != "HAN-EF9012-P9" {
		t.Errorf("resolved wrong product %s", got[0].Product.ProductID)
	}
	if got[0].Score != 6 {
		t.Errorf("score %v, want 6", got[0].Score)
	}
	if got[0].Reason != "Frequently bought together (6 times)" {
		t.Errorf("reason %q", got[0].Reason)
	}
}

func TestRecommendationsWithProductsSubstringLookup(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"AB1234-X", "HAN-EF9012-P9", "4"},
		},
	)

	// Association uses product ids; resolution still finds the product via
	// its id key even when the reference differs.
	products := []domain.Product{
		{ProductID: "HAN-EF9012-P9", ReferenceNumber: "EF9012"},
	}

	got := r.RecommendationsWithProducts("AB1234-X", products, 5)
	if len(got) != 1 || got[0].Product.ReferenceNumber != "EF9012" {
		t.Errorf("id-keyed association did not resolve: %v", got)
	}
}

func TestStats(t *testing.T) {
	r := loadTable(t,
		[]string{"product_id_1", "product_id_2", "frequency"},
		[][]string{
			{"A", "B", "3"},
			{"A", "C", "2"},
		},
	)

	stats := r.Stats()
	if stats.TotalProducts != 3 {
		t.Errorf("TotalProducts = %d, want 3", stats.TotalProducts)
	}
	if stats.TotalAssociations != 4 {
		t.Errorf("TotalAssociations = %d, want 4", stats.TotalAssociations)
	}
	if stats.AvgPerProduct == 0 {
		t.Error("AvgPerProduct not computed")
	}
	if !r.Ready() {
		t.Error("Ready should be true after load")
	}
}
