package optimize

import (
	"gonum.org/v1/gonum/mat"

	"github.com/elastictraj/teb/graph"
)

// jacobianStep is the forward-difference perturbation applied to each free
// variable component, the same epsilon a numerical gradient fallback
// typically uses.
const jacobianStep = 1e-6

// buildJacobian evaluates the weighted residual vector at the graph's
// current state, then perturbs each free variable in turn (forward
// difference, since the cost of a second central-difference pass per
// variable is rarely worth it for this residual count) to fill in one
// column of J. Returns the baseline weighted residual vector alongside J so
// callers don't need a second evaluation pass.
func buildJacobian(g *graph.Graph, vars []varRef, x []float64) (r0 []float64, jac *mat.Dense) {
	baseline := evaluateResiduals(g)
	r0 = weightedVector(baseline)
	m := len(r0)
	n := len(vars)
	jac = mat.NewDense(m, n, nil)

	for j := range vars {
		orig := x[j]
		x[j] = orig + jacobianStep
		applyVariables(g, vars, x)
		perturbed := weightedVector(evaluateResiduals(g))
		for i := 0; i < m && i < len(perturbed); i++ {
			jac.Set(i, j, (perturbed[i]-r0[i])/jacobianStep)
		}
		x[j] = orig
	}
	applyVariables(g, vars, x)
	return r0, jac
}
