// Package vecmath holds the similarity maths shared by the vector stores.
package vecmath

import (
	"sort"

	"github.com/viterin/vek/vek32"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Zero vectors and vectors of different length score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	if vek32.Norm(a) == 0 || vek32.Norm(b) == 0 {
		return 0
	}
	s := float64(vek32.CosineSimilarity(a, b))
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	default:
		return s
	}
}

// TopK scores every point against query and returns the best limit points,
// highest score first. Ties keep ascending point ID order.
func TopK(points []domain.StoredPoint, query []float32, limit int) []domain.ScoredPoint {
	scored := make([]domain.ScoredPoint, 0, len(points))
	for _, p := range points {
		scored = append(scored, domain.ScoredPoint{
			ID:      p.ID,
			Payload: p.Payload,
			Score:   Cosine(query, p.Vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
