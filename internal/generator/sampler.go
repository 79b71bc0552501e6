package generator

import (
	"fmt"
	"math/rand"
	"sort"
)

// WeightedSampler draws from a discrete distribution using a cumulative
// weight array and binary search. Weights need not sum to 1.
type WeightedSampler struct {
	items      []string
	cumulative []float64
	total      float64
}

// NewWeightedSampler builds a sampler over items with matching positive
// weights.
func NewWeightedSampler(items []string, weights []float64) (*WeightedSampler, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("sampler requires at least one item")
	}
	if len(items) != len(weights) {
		return nil, fmt.Errorf("items and weights length mismatch: %d vs %d", len(items), len(weights))
	}

	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("weight for %q must be positive, got %v", items[i], w)
		}
		total += w
		cumulative[i] = total
	}

	return &WeightedSampler{
		items:      append([]string(nil), items...),
		cumulative: cumulative,
		total:      total,
	}, nil
}

// Sample draws one item using the provided random source.
func (s *WeightedSampler) Sample(rng *rand.Rand) string {
	u := rng.Float64() * s.total
	i := sort.SearchFloat64s(s.cumulative, u)
	if i >= len(s.items) {
		i = len(s.items) - 1
	}
	return s.items[i]
}
