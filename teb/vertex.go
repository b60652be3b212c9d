// Package teb implements the TimedElasticBand data structure: a
// time-parameterized sequence of Pose vertices interleaved with positive
// TimeDiff vertices, with self-resizing and warm-start-pruning semantics.
// It plays the role of an atomic decision-variable wrapper that a planner's
// graph is built over, narrowed to planar SE2 poses and scalar time
// intervals instead of joint-space configurations.
package teb

import "github.com/elastictraj/teb/geom"

// PoseVertex is a decision variable: an SE2 pose plus a flag marking it as
// fixed (start/goal poses) versus free (interior poses the solver may move).
type PoseVertex struct {
	Pose  geom.Pose
	Fixed bool
}

// TimeDiffVertex is a decision variable: a single positive time interval
// between two consecutive poses.
type TimeDiffVertex struct {
	Dt float64
}

// MinDt is the positive lower bound enforced on every TimeDiff by clamping,
// both during construction and resize and when the solver writes a new
// value (graph.SetDt). No penalty term on small Dt values is added to the
// graph.
const MinDt = 1e-3

// clampDt enforces the positive lower bound on a TimeDiff value.
func clampDt(dt float64) float64 {
	if dt < MinDt {
		return MinDt
	}
	return dt
}
