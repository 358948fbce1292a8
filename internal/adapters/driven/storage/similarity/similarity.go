// Package similarity provides the brute-force cosine ranking shared by the
// vector store adapters.
package similarity

import (
	"math"
	"sort"

	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
//
// Vectors of different length are compared over their shared prefix.
// A zero-magnitude vector scores 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK sorts matches by descending score and keeps at most k.
// Ties keep their input order. k <= 0 yields an empty slice.
func TopK(matches []driven.VectorMatch, k int) []driven.VectorMatch {
	if k <= 0 {
		return []driven.VectorMatch{}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	if matches == nil {
		return []driven.VectorMatch{}
	}
	return matches
}
