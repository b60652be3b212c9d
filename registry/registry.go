// Package registry holds the one-shot table of built-in edge families: a
// single read-mostly table, since every edge family is known at compile
// time and there is nothing dynamic to register per-model. What does need
// one-shot, concurrency-safe initialization is the shared family metadata
// table itself, since multiple planner instances may be constructed
// concurrently by a caller (e.g. one per robot in a fleet process) and must
// not race initializing it.
package registry

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/elastictraj/teb/graph"
)

// FamilyInfo describes a built-in edge family for logging and cost-breakdown
// reporting: a cost-breakdown report reads this table to print
// human-readable family names alongside their summed cost.
type FamilyInfo struct {
	Family  graph.Family
	Name    string
	IsHuman bool
}

var (
	initOnce    sync.Once
	initialized atomic.Bool
	table       map[graph.Family]FamilyInfo
	order       []graph.Family
)

// builtins lists every edge family the planner can build, in the fixed
// assembly order the graph builder adds them in (obstacle families first,
// kinematics and human-aware families last).
var builtins = []FamilyInfo{
	{Family: graph.FamilyObstacle, Name: "obstacle"},
	{Family: graph.FamilyDynamicObstacle, Name: "dynamic_obstacle"},
	{Family: graph.FamilyViaPoint, Name: "via_point"},
	{Family: graph.FamilyVelocity, Name: "velocity"},
	{Family: graph.FamilyVelocityHuman, Name: "velocity_human", IsHuman: true},
	{Family: graph.FamilyAcceleration, Name: "acceleration"},
	{Family: graph.FamilyAccelerationStart, Name: "acceleration_start"},
	{Family: graph.FamilyAccelerationGoal, Name: "acceleration_goal"},
	{Family: graph.FamilyTimeOptimal, Name: "time_optimal"},
	{Family: graph.FamilyKinematicsDiffDrive, Name: "kinematics_diff_drive"},
	{Family: graph.FamilyKinematicsCarlike, Name: "kinematics_carlike"},
	{Family: graph.FamilyHumanRobotSafety, Name: "human_robot_safety", IsHuman: true},
	{Family: graph.FamilyHumanHumanSafety, Name: "human_human_safety", IsHuman: true},
	{Family: graph.FamilyHumanRobotTTC, Name: "human_robot_ttc", IsHuman: true},
	{Family: graph.FamilyHumanRobotDirectional, Name: "human_robot_directional", IsHuman: true},
}

// Init populates the family table exactly once no matter how many goroutines
// call it concurrently: multiple planner constructors racing to stand up
// their shared state must not double-register or panic on a duplicate. Init
// is idempotent by construction, so there is no second registration to
// panic on.
func Init() {
	initOnce.Do(func() {
		table = make(map[graph.Family]FamilyInfo, len(builtins))
		order = make([]graph.Family, 0, len(builtins))
		for _, info := range builtins {
			table[info.Family] = info
			order = append(order, info.Family)
		}
		initialized.Store(true)
	})
}

// Initialized reports whether Init has completed, without blocking on the
// sync.Once if another goroutine is mid-initialization.
func Initialized() bool {
	return initialized.Load()
}

// Lookup returns the metadata for a family, initializing the table on first
// use if a caller forgot to call Init explicitly.
func Lookup(f graph.Family) (FamilyInfo, bool) {
	Init()
	info, ok := table[f]
	return info, ok
}

// Families returns every registered family in fixed assembly order.
func Families() []graph.Family {
	Init()
	out := make([]graph.Family, len(order))
	copy(out, order)
	return out
}
