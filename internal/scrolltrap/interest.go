// Package scrolltrap implements the interest model.
//
// This file provides the InterestModel type: an accumulating per-category
// weight map updated by positive interaction signals and consumed by the
// feed generator for weighted sampling. This is the "feed personalization"
// mechanic the reveal screen explains: every like teaches the feed what to
// show more of, and weights never decrease.
package scrolltrap

import "math/rand"

// signalMagnitudeLike is the weight added per like or reel play.
const signalMagnitudeLike = 2

// InterestModel maps content categories to accumulating weights.
// Invariant: every known category is always present with weight >= 1.
type InterestModel struct {
	weights map[Category]int
}

// NewInterestModel creates an interest model with every category at weight 1.
func NewInterestModel() *InterestModel {
	weights := make(map[Category]int, len(AllCategories))
	for _, c := range AllCategories {
		weights[c] = 1
	}
	return &InterestModel{weights: weights}
}

// RecordPositiveSignal increases the weight of a category by magnitude.
// Weights only ever grow. Unknown categories are attributed to the default
// category rather than rejected.
func (m *InterestModel) RecordPositiveSignal(category Category, magnitude int) {
	if magnitude <= 0 {
		return
	}
	if _, ok := m.weights[category]; !ok {
		category = DefaultCategory
	}
	m.weights[category] += magnitude
}

// SampleCategory performs a weighted random draw over the category weights:
// draw r uniformly in [0, total), walk categories in canonical order
// subtracting each weight until the remainder goes negative. Falls back to
// the default category if the weights are malformed.
func (m *InterestModel) SampleCategory(rng *rand.Rand) Category {
	total := 0
	for _, c := range AllCategories {
		if w := m.weights[c]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return DefaultCategory
	}
	r := rng.Intn(total)
	for _, c := range AllCategories {
		w := m.weights[c]
		if w <= 0 {
			continue
		}
		r -= w
		if r < 0 {
			return c
		}
	}
	return DefaultCategory
}

// TopCategory returns the category with the highest weight. Ties resolve to
// the earlier category in canonical order.
func (m *InterestModel) TopCategory() Category {
	top := DefaultCategory
	best := -1
	for _, c := range AllCategories {
		if w := m.weights[c]; w > best {
			top = c
			best = w
		}
	}
	return top
}

// ShareOfTotal returns a category's fraction of the total weight.
func (m *InterestModel) ShareOfTotal(category Category) float64 {
	total := 0
	for _, c := range AllCategories {
		total += m.weights[c]
	}
	if total <= 0 {
		return 0
	}
	return float64(m.weights[category]) / float64(total)
}

// Weight returns the current weight of a category.
func (m *InterestModel) Weight(category Category) int {
	return m.weights[category]
}

// WeightsCopy returns a copy of the weight map for snapshots.
func (m *InterestModel) WeightsCopy() map[Category]int {
	out := make(map[Category]int, len(m.weights))
	for c, w := range m.weights {
		out[c] = w
	}
	return out
}
