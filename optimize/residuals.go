package optimize

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/elastictraj/teb/graph"
)

// residualEntry records one scalar residual alongside the family it came
// from and its information weight, so the cost can be both summed for the
// solver and broken down per family afterward.
type residualEntry struct {
	family graph.Family
	value  float64
	weight float64
}

// evaluateResiduals walks every edge in assembly order and flattens its
// weighted residual components into a single entry list. Edge assembly
// order determines the order entries appear in, which in turn determines
// the order rows appear in the Jacobian built from this list.
func evaluateResiduals(g *graph.Graph) []residualEntry {
	edges := g.Edges()
	entries := make([]residualEntry, 0, len(edges)*2)
	for _, e := range edges {
		vals := e.Residual(g)
		weights := e.Weight()
		fam := e.Family()
		for i, v := range vals {
			w := 1.0
			if i < len(weights) {
				w = weights[i]
			}
			entries = append(entries, residualEntry{family: fam, value: v, weight: w})
		}
	}
	return entries
}

// weightedVector returns sqrt(weight)*value for every entry, the form the
// Gauss-Newton normal equations expect so that minimizing ||r||^2 minimizes
// the weighted sum of squares sum(weight_i * value_i^2).
func weightedVector(entries []residualEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = sqrtWeight(e.weight) * e.value
	}
	return out
}

func sqrtWeight(w float64) float64 {
	if w <= 0 {
		return 0
	}
	return math.Sqrt(w)
}

// CostBreakdown maps each edge family present in the last evaluation to its
// summed weighted squared residual, a per-iteration diagnostic kept across
// the final outer iteration for reporting.
type CostBreakdown map[graph.Family]float64

// breakdownFromEntries sums weight*value^2 grouped by family.
func breakdownFromEntries(entries []residualEntry) CostBreakdown {
	out := CostBreakdown{}
	for _, e := range entries {
		out[e.family] += e.weight * e.value * e.value
	}
	return out
}

// totalCost is the scalar the LM loop drives downward: the squared norm of
// the weighted residual vector, sum(weight_i * value_i^2). Computed via
// gonum/floats.Dot against itself rather than a hand-rolled accumulation
// loop.
func totalCost(entries []residualEntry) float64 {
	wv := weightedVector(entries)
	return floats.Dot(wv, wv)
}
