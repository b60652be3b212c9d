// Package graph implements the transient sparse factor graph built fresh
// each planning cycle: a graph whose vertices are borrowed (never owned)
// from one or more TimedElasticBands and whose edges are owned
// soft-constraint cost terms. A vertex reference is a (owner, kind, index)
// triple resolved against the owning band rather than a pointer, so Clear
// can drop every edge without ever touching a TEB's pose or time-diff
// slices.
//
// This plays the role named/keyed handles into externally-owned data play
// elsewhere: looked up by index rather than held by pointer.
package graph

import (
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/teb"
	"github.com/elastictraj/teb/teberrors"
)

// VertexKind tags whether a VertexRef addresses a Pose or a TimeDiff.
type VertexKind int

const (
	// KindPose addresses a pose vertex.
	KindPose VertexKind = iota
	// KindTimeDiff addresses a time-diff vertex.
	KindTimeDiff
)

// VertexRef is a non-owning handle to a vertex: which band owns it, whether
// it is a pose or a time-diff, and its index within that band's slice.
type VertexRef struct {
	Owner string
	Kind  VertexKind
	Index int
}

// Edge is a soft-constraint cost term. Touches declares the vertices it
// reads; Family tags which edge family it belongs to for cost-breakdown
// classification, via an explicit tag read rather than runtime type
// identification. Residual returns the edge's fixed-shape residual vector;
// Weight returns the matching diagonal information (weight) entries, one
// per residual component.
type Edge interface {
	Touches() []VertexRef
	Family() Family
	Residual(g *Graph) []float64
	Weight() []float64
}

// Family identifies an edge's constraint family for fixed-order assembly
// and cost-breakdown classification.
type Family int

const (
	FamilyObstacle Family = iota
	FamilyDynamicObstacle
	FamilyViaPoint
	FamilyVelocity
	FamilyVelocityHuman
	FamilyAcceleration
	FamilyAccelerationStart
	FamilyAccelerationGoal
	FamilyTimeOptimal
	FamilyKinematicsDiffDrive
	FamilyKinematicsCarlike
	FamilyHumanRobotSafety
	FamilyHumanHumanSafety
	FamilyHumanRobotTTC
	FamilyHumanRobotDirectional
)

// String names a Family for logging and cost-breakdown reports.
func (f Family) String() string {
	names := map[Family]string{
		FamilyObstacle:              "obstacle",
		FamilyDynamicObstacle:       "dynamic_obstacle",
		FamilyViaPoint:              "via_point",
		FamilyVelocity:              "velocity",
		FamilyVelocityHuman:         "velocity_human",
		FamilyAcceleration:          "acceleration",
		FamilyAccelerationStart:     "acceleration_start",
		FamilyAccelerationGoal:      "acceleration_goal",
		FamilyTimeOptimal:           "time_optimal",
		FamilyKinematicsDiffDrive:   "kinematics_diff_drive",
		FamilyKinematicsCarlike:     "kinematics_carlike",
		FamilyHumanRobotSafety:      "human_robot_safety",
		FamilyHumanHumanSafety:      "human_human_safety",
		FamilyHumanRobotTTC:         "human_robot_ttc",
		FamilyHumanRobotDirectional: "human_robot_directional",
	}
	if n, ok := names[f]; ok {
		return n
	}
	return "unknown"
}

// Graph is the transient sparse factor graph. It borrows vertices from one
// or more bands for the duration of exactly one build/solve/clear cycle.
type Graph struct {
	bands      map[string]*teb.TimedElasticBand
	bandOrder  []string
	edges      []Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{bands: map[string]*teb.TimedElasticBand{}}
}

// AddBand registers a band under the given owner key so its vertices can be
// addressed by VertexRef. Registration order is preserved so callers that
// walk every band (the optimizer's free-variable collection) see a
// deterministic ordering instead of Go's randomized map iteration.
func (g *Graph) AddBand(owner string, band *teb.TimedElasticBand) {
	if _, exists := g.bands[owner]; !exists {
		g.bandOrder = append(g.bandOrder, owner)
	}
	g.bands[owner] = band
}

// BandOrder returns the owner keys in the order they were registered.
func (g *Graph) BandOrder() []string {
	return g.bandOrder
}

// AddEdge appends an edge to the graph. Edges are owned by the graph and
// freed on Clear.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
}

// Edges returns the graph's active edges, in the fixed assembly order they
// were added.
func (g *Graph) Edges() []Edge { return g.edges }

// IsEmpty reports whether the graph currently has no bands and no edges,
// the precondition a build asserts before it starts.
func (g *Graph) IsEmpty() bool {
	return len(g.bands) == 0 && len(g.edges) == 0
}

// AssertEmpty returns ErrGraphNotEmpty if the graph is not empty, matching
// the programming-error taxonomy a caller building on an unclear graph
// would hit.
func (g *Graph) AssertEmpty() error {
	if !g.IsEmpty() {
		return teberrors.ErrGraphNotEmpty
	}
	return nil
}

// Clear drops every edge and every band registration. It must never free or
// mutate the pose/time-diff vertices themselves, which remain owned by the
// TEBs that were registered with AddBand. Every build must be paired with a
// Clear, including on error paths.
func (g *Graph) Clear() {
	g.bands = map[string]*teb.TimedElasticBand{}
	g.bandOrder = nil
	g.edges = nil
}

// Pose resolves a VertexRef of KindPose against its owning band.
func (g *Graph) Pose(ref VertexRef) geom.Pose {
	return g.bands[ref.Owner].PoseAt(ref.Index).Pose
}

// PoseFixed reports whether the pose at ref is fixed.
func (g *Graph) PoseFixed(ref VertexRef) bool {
	return g.bands[ref.Owner].PoseAt(ref.Index).Fixed
}

// Dt resolves a VertexRef of KindTimeDiff against its owning band.
func (g *Graph) Dt(ref VertexRef) float64 {
	return g.bands[ref.Owner].DtAt(ref.Index).Dt
}

// SetPose writes a new value into the pose vertex addressed by ref,
// provided it is not fixed. Used by the optimizer to apply an LM step.
func (g *Graph) SetPose(ref VertexRef, p geom.Pose) {
	v := g.bands[ref.Owner].PoseAt(ref.Index)
	if v.Fixed {
		return
	}
	v.Pose = geom.NewPose(p.X(), p.Y(), p.Theta)
}

// SetDt writes a new value into the time-diff vertex addressed by ref,
// clamped to the positive lower bound.
func (g *Graph) SetDt(ref VertexRef, dt float64) {
	v := g.bands[ref.Owner].DtAt(ref.Index)
	if dt < teb.MinDt {
		dt = teb.MinDt
	}
	v.Dt = dt
}

// Band returns the band registered under owner, or nil if absent.
func (g *Graph) Band(owner string) *teb.TimedElasticBand {
	return g.bands[owner]
}

// Bands returns the currently registered bands keyed by owner. Map
// iteration order is not defined; BandOrder gives the registration order.
func (g *Graph) Bands() map[string]*teb.TimedElasticBand {
	return g.bands
}
