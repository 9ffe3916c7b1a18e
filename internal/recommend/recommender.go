package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"partfinder/internal/domain"
)

// ErrTooFewColumns reports purchase data with no identifiable item pair.
var ErrTooFewColumns = errors.New("purchase data needs at least two columns")

const (
	DefaultTopN     = 5
	DefaultMinScore = 2.0
)

// Column naming conventions seen in purchase exports, in priority order.
// When none matches, the first columns are taken positionally.
var knownColumnSets = [][3]string{
	{"product_id_1", "product_id_2", "frequency"},
	{"source_product", "target_product", "count"},
	{"item_a", "item_b", "frequency"},
	{"labels_product", "handling_product", "purchase_count"},
}

// Params tunes recommendation output.
type Params struct {
	TopN     int     // default recommendation count
	MinScore float64 // minimum co-purchase weight to surface
}

func DefaultParams() Params {
	return Params{TopN: DefaultTopN, MinScore: DefaultMinScore}
}

// Scored is one recommended identifier with its association weight.
type Scored struct {
	Ref   string  `json:"ref"`
	Score float64 `json:"score"`
}

// Recommender holds a symmetric co-purchase weight graph over product
// identifiers. Built once from purchase history, read-only afterwards.
type Recommender struct {
	params       Params
	associations map[string]map[string]float64
}

func NewRecommender(params Params) *Recommender {
	if params.TopN <= 0 {
		params.TopN = DefaultTopN
	}
	if params.MinScore == 0 {
		params.MinScore = DefaultMinScore
	}
	return &Recommender{params: params}
}

// Load builds the association graph from tabular purchase records. Each row
// increments the weight in both directions, so the graph is symmetric by
// construction. Rows with unparseable frequencies count as 1.0 rather than
// failing the load.
func (r *Recommender) Load(table domain.PurchaseTable) error {
	src, tgt, freq, err := resolveColumns(table.Columns)
	if err != nil {
		return err
	}

	associations := make(map[string]map[string]float64)
	add := func(a, b string, w float64) {
		m, ok := associations[a]
		if !ok {
			m = make(map[string]float64)
			associations[a] = m
		}
		m[b] += w
	}

	for _, row := range table.Rows {
		if len(row) <= src || len(row) <= tgt {
			continue
		}
		source := strings.TrimSpace(row[src])
		target := strings.TrimSpace(row[tgt])
		if source == "" || target == "" {
			continue
		}

		weight := 1.0
		if freq >= 0 && len(row) > freq {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[freq]), 64); err == nil {
				weight = v
			}
		}

		add(source, target, weight)
		add(target, source, weight)
	}

	r.associations = associations
	return nil
}

// resolveColumns maps the header to (source, target, frequency) indexes.
// Frequency is -1 when the table has no usable third column.
func resolveColumns(columns []string) (src, tgt, freq int, err error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, set := range knownColumnSets {
		s, okS := index[set[0]]
		t, okT := index[set[1]]
		f, okF := index[set[2]]
		if okS && okT && okF {
			return s, t, f, nil
		}
	}

	// Positional fallback. Not a schema guarantee, but purchase exports
	// overwhelmingly lead with the item pair.
	if len(columns) < 2 {
		return 0, 0, -1, ErrTooFewColumns
	}
	freq = -1
	if len(columns) > 2 {
		freq = 2
	}
	return 0, 1, freq, nil
}

// Ready reports whether purchase data has been loaded.
func (r *Recommender) Ready() bool {
	return len(r.associations) > 0
}

// Recommendations returns the identifiers most frequently co-purchased
// with productRef, strongest first. Unknown references resolve through a
// substring match; no match yields an empty slice.
func (r *Recommender) Recommendations(productRef string, topN int) []Scored {
	if topN <= 0 {
		topN = r.params.TopN
	}

	key, ok := r.resolveKey(productRef)
	if !ok {
		return nil
	}

	var recs []Scored
	for ref, score := range r.associations[key] {
		if score >= r.params.MinScore {
			recs = append(recs, Scored{Ref: ref, Score: score})
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Ref < recs[j].Ref
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

// resolveKey finds the association-table key for a reference: exact match
// first, then the substring-matching key. Multiple fuzzy matches are
// possible by construction; the shortest key wins, then lexicographic
// order, so resolution does not depend on map iteration order.
func (r *Recommender) resolveKey(productRef string) (string, bool) {
	if _, ok := r.associations[productRef]; ok {
		return productRef, true
	}

	var matches []string
	for key := range r.associations {
		if strings.Contains(key, productRef) || strings.Contains(productRef, key) {
			matches = append(matches, key)
		}
	}
	if len(matches) == 0 {
		return "", false
	}

	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return matches[0], true
}

// RecommendationsWithProducts resolves recommended identifiers against the
// extracted product set, dropping identifiers no product matches. Products
// are indexed by both reference number and product id, exact match first,
// substring fallback second.
func (r *Recommender) RecommendationsWithProducts(productRef string, products []domain.Product, topN int) []domain.Recommendation {
	scored := r.Recommendations(productRef, topN)
	if len(scored) == 0 {
		return nil
	}

	lookup := make(map[string]domain.Product, len(products)*2)
	var lookupKeys []string
	for _, p := range products {
		for _, key := range []string{p.ReferenceNumber, p.ProductID} {
			if _, seen := lookup[key]; !seen {
				lookupKeys = append(lookupKeys, key)
			}
			lookup[key] = p
		}
	}
	sort.Slice(lookupKeys, func(i, j int) bool {
		if len(lookupKeys[i]) != len(lookupKeys[j]) {
			return len(lookupKeys[i]) < len(lookupKeys[j])
		}
		return lookupKeys[i] < lookupKeys[j]
	})

	var results []domain.Recommendation
	for _, rec := range scored {
		product, ok := lookup[rec.Ref]
		if !ok {
			for _, key := range lookupKeys {
				if strings.Contains(rec.Ref, key) || strings.Contains(key, rec.Ref) {
					product, ok = lookup[key], true
					break
				}
			}
		}
		if !ok {
			continue
		}

		results = append(results, domain.Recommendation{
			Product: product,
			Score:   rec.Score,
			Reason:  fmt.Sprintf("Frequently bought together (%d times)", int(rec.Score)),
		})
	}
	return results
}

// Stats reports the size of the association table.
func (r *Recommender) Stats() domain.RecommenderStats {
	stats := domain.RecommenderStats{
		TotalProducts: len(r.associations),
	}
	for _, m := range r.associations {
		stats.TotalAssociations += len(m)
	}
	if stats.TotalProducts > 0 {
		stats.AvgPerProduct = float64(stats.TotalAssociations) / float64(stats.TotalProducts)
	}
	return stats
}
