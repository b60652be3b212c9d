// Package planner implements the core façade: it owns the robot's
// TimedElasticBand, a per-human-id HumanState map, the approach target for
// planning_mode=2, and the current configuration, and it orchestrates
// prepare -> (resize -> build -> solve -> clear)xN -> extract in that fixed
// order on every call.
//
// This plays the role a long-lived planner façade plays elsewhere: it owns
// mutable planning state across calls and delegates the inner numerical
// work to a solver package.
package planner

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/elastictraj/teb/edges"
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/graph"
	"github.com/elastictraj/teb/logging"
	"github.com/elastictraj/teb/obstacle"
	"github.com/elastictraj/teb/optimize"
	"github.com/elastictraj/teb/planconfig"
	"github.com/elastictraj/teb/registry"
	"github.com/elastictraj/teb/teb"
)

const (
	robotOwner    = "robot"
	approachOwner = "approach"
)

func humanOwner(id uint64) string {
	// A string key, not a typed union, is what lets planning_mode=2 reuse the
	// HumanRobotSafety edge with the approach band substituted for a human
	// band -- Owner is just a map key either way.
	return "human:" + strconv.FormatUint(id, 10)
}

// Planner is the core façade. One instance is constructed per robot; it is
// not safe for concurrent use by multiple goroutines, though constructing
// many Planners concurrently is safe since the shared family registry
// initializes itself exactly once (registry.Init).
type Planner struct {
	cfg    planconfig.Config
	logger logging.Logger

	optimizer *optimize.Optimizer
	graph     *graph.Graph

	robotTeb         *teb.TimedElasticBand
	robotStartVel    edges.Velocity2D
	robotHasStartVel bool
	robotGoalVel     edges.Velocity2D
	robotHasGoalVel  bool

	humans map[uint64]*HumanState

	approachTarget    geom.Pose
	hasApproachTarget bool

	obstacles      []obstacle.Obstacle
	viaPoints      []obstacle.ViaPoint
	humanViaPoints map[uint64][]obstacle.ViaPoint

	// itersSinceReinit feeds the per-edge weight ramp: it resets to 0 on
	// every full re-initialization of the robot TEB and increments once per
	// outer iteration thereafter.
	itersSinceReinit int

	lastCostBreakdown optimize.CostBreakdown
	lastCost          float64
	lastCycleID       string
}

// New constructs a Planner. A nil logger yields a default logger, tolerating
// an absent logger outside of test harnesses.
func New(cfg planconfig.Config, logger logging.Logger) *Planner {
	registry.Init()
	if logger == nil {
		logger = logging.NewLogger("planner")
	}
	return &Planner{
		cfg:            cfg,
		logger:         logger,
		optimizer:      optimize.New(optimize.DefaultConfig(), logger.Sublogger("optimize")),
		graph:          graph.New(),
		humans:         map[uint64]*HumanState{},
		humanViaPoints: map[uint64][]obstacle.ViaPoint{},
	}
}

// LastCost returns the scalar total cost recorded on the final outer
// iteration of the most recent optimize call that requested cost computation
// (optim.optimization_verbose); it is 0 if no such call has run.
func (p *Planner) LastCost() float64 { return p.lastCost }

// LastCostBreakdown returns the per-family cost breakdown recorded on the
// final outer iteration of the most recent optimize call that requested cost
// computation (optim.optimization_verbose), or nil if no such call has run.
func (p *Planner) LastCostBreakdown() optimize.CostBreakdown { return p.lastCostBreakdown }

// Config returns the planner's current configuration.
func (p *Planner) Config() planconfig.Config { return p.cfg }

// SetConfig replaces the planner's configuration for subsequent plan calls.
func (p *Planner) SetConfig(cfg planconfig.Config) { p.cfg = cfg }

// newCycleID tags one plan() call with a correlation id threaded through
// structured logs across plan/optimize.
func newCycleID() string {
	return uuid.New().String()
}
