package planner

import (
	"github.com/elastictraj/teb/edges"
	"github.com/elastictraj/teb/teb"
)

// HumanState bundles everything the planner tracks for one human id into a
// single mapped value, rather than three parallel maps (TEB, start
// velocity, goal velocity) keyed by human id, which is an
// implicit-alignment hazard if any one of the three falls out of sync with
// the others.
type HumanState struct {
	Teb *teb.TimedElasticBand

	StartVel    edges.Velocity2D
	HasStartVel bool

	// GoalVelOpt is always nil: human goal velocity is intentionally
	// disabled. Kept as a field (rather than omitted) so a future per-human
	// goal policy has somewhere to live without another parallel map.
	GoalVelOpt *edges.Velocity2D
}
