// Package teberrors declares the sentinel error taxonomy for the planner
// and optimizer. Call sites return these values unwrapped, so callers can
// compare them directly; optimize.Solve combines ErrSolverFailed with the
// per-iteration causes through go.uber.org/multierr.
package teberrors

import "errors"

var (
	// ErrNotInitialized names the condition of an entry point called before
	// the planner or optimizer has been configured. No function in this
	// module returns it.
	ErrNotInitialized = errors.New("teb: not initialized")

	// ErrInvalidInput is returned for an empty plan, a singleton plan, or a
	// non-positive TimeDiff.
	ErrInvalidInput = errors.New("teb: invalid input")

	// ErrDisabledByConfig names the condition of optimization not activated
	// or the robot below its operability floor. The planner reports that
	// condition as a `false, nil` result with a log line and does not return
	// this value.
	ErrDisabledByConfig = errors.New("teb: disabled by configuration")

	// ErrGraphNotEmpty indicates a missing clear() on a prior build path; a
	// programming error, not a recoverable planning failure.
	ErrGraphNotEmpty = errors.New("teb: graph is not empty")

	// ErrSolverFailed indicates the inner LM solve completed zero iterations.
	ErrSolverFailed = errors.New("teb: solver failed to complete any iterations")

	// ErrNoTrajectory is returned when trajectory extraction is requested with
	// fewer than two poses in the band.
	ErrNoTrajectory = errors.New("teb: fewer than two poses, no trajectory")
)
