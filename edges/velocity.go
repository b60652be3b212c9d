package edges

import (
	"math"

	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/graph"
)

func translationalVelocity(g *graph.Graph, p0, p1 graph.VertexRef, dtRef graph.VertexRef) (v, dt float64) {
	a := g.Pose(p0)
	b := g.Pose(p1)
	dt = safeDt(g.Dt(dtRef))
	disp := b.Point.Sub(a.Point)
	// Signed projection onto the heading of the first pose, matching the
	// velocity-command convention used elsewhere for extracted trajectories.
	v = disp.Dot(a.HeadingVector()) / dt
	return v, dt
}

func angularVelocity(g *graph.Graph, p0, p1 graph.VertexRef, dtRef graph.VertexRef) float64 {
	a := g.Pose(p0)
	b := g.Pose(p1)
	dt := safeDt(g.Dt(dtRef))
	return geom.AngleDiff(a.Theta, b.Theta) / dt
}

// Velocity penalizes translational speed exceeding MaxVelX and angular speed
// exceeding MaxVelTheta between two consecutive poses.
type Velocity struct {
	P0, P1, Dt         graph.VertexRef
	MaxVelX, MaxVelTheta float64
	weight             float64
}

// NewVelocity constructs a robot Velocity edge.
func NewVelocity(p0, p1, dt graph.VertexRef, maxVelX, maxVelTheta, weight float64) *Velocity {
	return &Velocity{P0: p0, P1: p1, Dt: dt, MaxVelX: maxVelX, MaxVelTheta: maxVelTheta, weight: weight}
}

func (e *Velocity) Touches() []graph.VertexRef { return []graph.VertexRef{e.P0, e.P1, e.Dt} }
func (e *Velocity) Family() graph.Family        { return graph.FamilyVelocity }
func (e *Velocity) Weight() []float64           { return []float64{e.weight, e.weight} }

func (e *Velocity) Residual(g *graph.Graph) []float64 {
	v, _ := translationalVelocity(g, e.P0, e.P1, e.Dt)
	w := angularVelocity(g, e.P0, e.P1, e.Dt)
	return []float64{
		UpperBoundPenalty(math.Abs(v), e.MaxVelX),
		UpperBoundPenalty(math.Abs(w), e.MaxVelTheta),
	}
}

// VelocityHuman is Velocity plus a deviation-from-nominal penalty on linear
// speed, used for human TEBs.
type VelocityHuman struct {
	P0, P1, Dt           graph.VertexRef
	MaxVelX, MaxVelTheta float64
	NominalVelX          float64
	weight               float64
	nominalWeight        float64
}

// NewVelocityHuman constructs a VelocityHuman edge.
func NewVelocityHuman(p0, p1, dt graph.VertexRef, maxVelX, maxVelTheta, nominalVelX, weight, nominalWeight float64) *VelocityHuman {
	return &VelocityHuman{
		P0: p0, P1: p1, Dt: dt,
		MaxVelX: maxVelX, MaxVelTheta: maxVelTheta, NominalVelX: nominalVelX,
		weight: weight, nominalWeight: nominalWeight,
	}
}

func (e *VelocityHuman) Touches() []graph.VertexRef { return []graph.VertexRef{e.P0, e.P1, e.Dt} }
func (e *VelocityHuman) Family() graph.Family        { return graph.FamilyVelocityHuman }
func (e *VelocityHuman) Weight() []float64 {
	return []float64{e.weight, e.weight, e.nominalWeight}
}

func (e *VelocityHuman) Residual(g *graph.Graph) []float64 {
	v, _ := translationalVelocity(g, e.P0, e.P1, e.Dt)
	w := angularVelocity(g, e.P0, e.P1, e.Dt)
	return []float64{
		UpperBoundPenalty(math.Abs(v), e.MaxVelX),
		UpperBoundPenalty(math.Abs(w), e.MaxVelTheta),
		v - e.NominalVelX,
	}
}
