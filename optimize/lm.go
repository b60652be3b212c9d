package optimize

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/elastictraj/teb/graph"
	"github.com/elastictraj/teb/logging"
	"github.com/elastictraj/teb/teberrors"
)

// Config controls the inner Levenberg-Marquardt loop: its iteration cap and
// the damping schedule.
type Config struct {
	// MaxIterations is the inner iteration cap.
	MaxIterations int
	// InitialLambda is the starting LM damping factor.
	InitialLambda float64
	// LambdaUp/LambdaDown scale the damping factor on a rejected/accepted step.
	LambdaUp, LambdaDown float64
	// CostEpsilon stops the loop early once the relative cost improvement
	// between accepted steps falls below this fraction.
	CostEpsilon float64
}

// DefaultConfig returns the LM tuning used when a caller doesn't override
// it, values in the same range a gradient-descent solver's step/tolerance
// defaults typically fall in.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 5,
		InitialLambda: 1e-2,
		LambdaUp:      10,
		LambdaDown:    0.1,
		CostEpsilon:   1e-6,
	}
}

// Result reports what the inner solve accomplished, for the planner's
// cost-breakdown persistence and iteration accounting.
type Result struct {
	Iterations    int
	InitialCost   float64
	FinalCost     float64
	CostBreakdown CostBreakdown
}

// Optimizer drives the Levenberg-Marquardt loop over a graph's free
// variables. One Optimizer is built per planner and reused across planning
// cycles: the optimizer is long-lived, the graph it solves is rebuilt and
// cleared every cycle.
type Optimizer struct {
	cfg    Config
	logger logging.Logger

	lastBreakdown CostBreakdown
}

// New constructs an Optimizer. A nil logger falls back to a default logger
// so callers can omit one in tests.
func New(cfg Config, logger logging.Logger) *Optimizer {
	if logger == nil {
		logger = logging.NewLogger("optimize")
	}
	return &Optimizer{cfg: cfg, logger: logger}
}

// SetMaxIterations overrides the inner iteration cap for subsequent Solve
// calls, letting a caller like the planner façade plumb through a changed
// iteration budget without rebuilding the Optimizer.
func (o *Optimizer) SetMaxIterations(n int) {
	o.cfg.MaxIterations = n
}

// LastCostBreakdown returns the per-family cost breakdown recorded by the
// most recent Solve call, so a caller can report this classification on the
// final outer iteration without threading a return value through the outer
// loop.
func (o *Optimizer) LastCostBreakdown() CostBreakdown {
	return o.lastBreakdown
}

// Solve runs the damped Gauss-Newton loop against g's currently assembled
// edges until MaxIterations is reached or the step stops improving the cost
// meaningfully. It mutates the graph's (and therefore the underlying bands')
// vertex values in place, applying only accepted steps. Returns
// teberrors.ErrSolverFailed if not even one iteration could take a step
// (e.g. a singular normal-equation matrix from the very first iteration).
func (o *Optimizer) Solve(g *graph.Graph) (Result, error) {
	vars, x := collectFreeVariables(g)
	if len(vars) == 0 {
		o.lastBreakdown = breakdownFromEntries(evaluateResiduals(g))
		return Result{CostBreakdown: o.lastBreakdown}, nil
	}

	lambda := o.cfg.InitialLambda
	entries := evaluateResiduals(g)
	cost := totalCost(entries)
	result := Result{InitialCost: cost, FinalCost: cost, CostBreakdown: breakdownFromEntries(entries)}

	var lastErr error
	accepted := 0

	for iter := 0; iter < o.cfg.MaxIterations; iter++ {
		r0, jac := buildJacobian(g, vars, x)

		step, err := lmStep(jac, r0, lambda)
		if err != nil {
			lastErr = multierr.Append(lastErr, errors.Wrapf(err, "inner iteration %d", iter))
			lambda *= o.cfg.LambdaUp
			continue
		}

		candidate := make([]float64, len(x))
		for i := range x {
			candidate[i] = x[i] - step[i]
		}
		applyVariables(g, vars, candidate)
		newEntries := evaluateResiduals(g)
		newCost := totalCost(newEntries)

		if newCost < cost {
			improvement := cost - newCost
			x = candidate
			entries = newEntries
			cost = newCost
			lambda *= o.cfg.LambdaDown
			accepted++
			result.FinalCost = cost
			result.CostBreakdown = breakdownFromEntries(entries)
			if result.InitialCost > 0 && improvement/result.InitialCost < o.cfg.CostEpsilon {
				result.Iterations = accepted
				o.lastBreakdown = result.CostBreakdown
				o.logger.Debugw("lm converged", "iterations", accepted, "cost", cost)
				return result, nil
			}
		} else {
			applyVariables(g, vars, x)
			lambda *= o.cfg.LambdaUp
		}
	}

	result.Iterations = accepted
	o.lastBreakdown = result.CostBreakdown
	if accepted == 0 {
		if lastErr == nil {
			lastErr = teberrors.ErrSolverFailed
		} else {
			lastErr = multierr.Append(teberrors.ErrSolverFailed, lastErr)
		}
		return result, lastErr
	}
	o.logger.Debugw("lm iterations exhausted", "accepted", accepted, "cost", cost)
	return result, nil
}

// lmStep solves the damped normal equations (J^T J + lambda*I) d = J^T r for
// the step d, via gonum's Cholesky decomposition.
func lmStep(jac *mat.Dense, r []float64, lambda float64) ([]float64, error) {
	_, n := jac.Dims()
	rVec := mat.NewVecDense(len(r), r)

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	for i := 0; i < n; i++ {
		jtj.Set(i, i, jtj.At(i, i)+lambda)
	}

	var jtr mat.VecDense
	jtr.MulVec(jac.T(), rVec)

	var chol mat.Cholesky
	if ok := chol.Factorize(mat.NewSymDense(n, jtj.RawMatrix().Data)); !ok {
		return nil, errors.New("normal equations matrix is not positive definite")
	}

	var step mat.VecDense
	if err := chol.SolveVecTo(&step, &jtr); err != nil {
		return nil, errors.Wrap(err, "solving normal equations")
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = step.AtVec(i)
	}
	return out, nil
}
