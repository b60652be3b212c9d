// Package edges implements the residual cost terms: the unary, binary, and
// multi-way soft constraints that the factor graph's Levenberg-Marquardt
// solver minimizes. Every edge is a concrete type carrying an explicit
// Family tag (graph.Family) rather than relying on a type hierarchy with
// runtime type identification.
package edges

import "math"

// UpperBoundPenalty is the one-sided penalty max(0, x-xmax); the solver
// squares and sums residuals, so this alone yields the usual quadratic
// hinge loss.
func UpperBoundPenalty(x, xmax float64) float64 {
	return math.Max(0, x-xmax)
}

// LowerBoundPenalty is the one-sided penalty max(0, xmin-x) for a lower
// bound, the mirror image of UpperBoundPenalty.
func LowerBoundPenalty(x, xmin float64) float64 {
	return math.Max(0, xmin-x)
}

// safeDt guards against Δt -> 0 producing non-finite residuals in
// velocity/acceleration edges.
func safeDt(dt float64) float64 {
	if dt < 1e-6 {
		return 1e-6
	}
	return dt
}
