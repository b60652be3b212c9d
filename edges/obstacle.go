package edges

import (
	"github.com/elastictraj/teb/graph"
	"github.com/elastictraj/teb/obstacle"
)

// Obstacle penalizes a pose's penetration into the inflated footprint of a
// static obstacle. Obstacles are read-only external input and are captured
// by value on the edge at graph-build time rather than being graph vertices
// themselves.
type Obstacle struct {
	P              graph.VertexRef
	Obstacle       obstacle.Obstacle
	MinObstacleDist float64
	weight          float64
}

// NewObstacle constructs an Obstacle edge. A SourceCostmap obstacle's weight
// is scaled down relative to a directly supplied one, reflecting the lower
// confidence in a footprint-cost-derived obstacle versus an explicitly
// tracked one.
func NewObstacle(p graph.VertexRef, o obstacle.Obstacle, minObstacleDist, weight float64) *Obstacle {
	if o.Source == obstacle.SourceCostmap {
		weight *= 0.5
	}
	return &Obstacle{P: p, Obstacle: o, MinObstacleDist: minObstacleDist, weight: weight}
}

func (e *Obstacle) Touches() []graph.VertexRef { return []graph.VertexRef{e.P} }
func (e *Obstacle) Family() graph.Family        { return graph.FamilyObstacle }
func (e *Obstacle) Weight() []float64           { return []float64{e.weight} }

func (e *Obstacle) Residual(g *graph.Graph) []float64 {
	pose := g.Pose(e.P)
	dist := e.Obstacle.DistanceToPoint(pose.Point)
	return []float64{LowerBoundPenalty(dist, e.MinObstacleDist)}
}

// DynamicObstacle penalizes a pose's penetration into the predicted position
// of a dynamic obstacle at that pose's cumulative time. The cumulative time
// elapsed before this pose is a snapshot taken when the edge
// is constructed (computed once per graph build, from the band's time-diffs
// at that moment); the edge still touches the adjacent Dt vertex so that the
// solver's local perturbation of that Dt is reflected in the predicted
// obstacle position between rebuilds.
type DynamicObstacle struct {
	P               graph.VertexRef
	Dt              graph.VertexRef
	TimeBeforePose  float64
	Obstacle        obstacle.Obstacle
	MinObstacleDist float64
	weight          float64
}

// NewDynamicObstacle constructs a DynamicObstacle edge.
func NewDynamicObstacle(p, dt graph.VertexRef, timeBeforePose float64, o obstacle.Obstacle, minObstacleDist, weight float64) *DynamicObstacle {
	return &DynamicObstacle{P: p, Dt: dt, TimeBeforePose: timeBeforePose, Obstacle: o, MinObstacleDist: minObstacleDist, weight: weight}
}

func (e *DynamicObstacle) Touches() []graph.VertexRef { return []graph.VertexRef{e.P, e.Dt} }
func (e *DynamicObstacle) Family() graph.Family        { return graph.FamilyDynamicObstacle }
func (e *DynamicObstacle) Weight() []float64           { return []float64{e.weight} }

func (e *DynamicObstacle) Residual(g *graph.Graph) []float64 {
	pose := g.Pose(e.P)
	t := e.TimeBeforePose + g.Dt(e.Dt)
	dist := e.Obstacle.DistanceToPointAtTime(pose.Point, t)
	return []float64{LowerBoundPenalty(dist, e.MinObstacleDist)}
}
