package edges

import (
	"github.com/elastictraj/teb/graph"
	"github.com/elastictraj/teb/obstacle"
)

// ViaPoint penalizes the squared distance from a pose to a via-point
// attractor.
type ViaPoint struct {
	P        graph.VertexRef
	ViaPoint obstacle.ViaPoint
	weight   float64
}

// NewViaPoint constructs a ViaPoint edge.
func NewViaPoint(p graph.VertexRef, vp obstacle.ViaPoint, weight float64) *ViaPoint {
	return &ViaPoint{P: p, ViaPoint: vp, weight: weight}
}

func (e *ViaPoint) Touches() []graph.VertexRef { return []graph.VertexRef{e.P} }
func (e *ViaPoint) Family() graph.Family        { return graph.FamilyViaPoint }
func (e *ViaPoint) Weight() []float64           { return []float64{e.weight} }

func (e *ViaPoint) Residual(g *graph.Graph) []float64 {
	pose := g.Pose(e.P)
	return []float64{pose.DistanceToPoint(e.ViaPoint.Point)}
}
