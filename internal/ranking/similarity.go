package ranking

import "math"

// Similarity computes the cosine similarity between two embedding
// vectors. Mismatched lengths or a zero-norm vector yield 0 rather than
// an error: a degenerate embedding means "no signal", not a failure.
func Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
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
