package search

import (
	"math"
	"sort"
)

// candidate is one scored position in the flat index.
type candidate struct {
	index int
	score float64
}

// l2Normalize scales v to unit length in place. Zero vectors are left
// untouched.
func l2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// innerProduct computes the dot product of two vectors. With both sides
// unit-normalized this equals their cosine similarity.
func innerProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// topCandidates exhaustively scores every vector against the query and
// returns the k best, ordered by score descending with index order breaking
// ties deterministically.
func topCandidates(vectors [][]float32, query []float32, k int) []candidate {
	scored := make([]candidate, len(vectors))
	for i, v := range vectors {
		scored[i] = candidate{index: i, score: innerProduct(query, v)}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
