package edges

import (
	"math"

	"github.com/elastictraj/teb/graph"
)

// Velocity2D is a planar velocity boundary condition: linear speed along
// heading and angular rate.
type Velocity2D struct {
	V, W float64
}

// Acceleration penalizes the finite-difference linear and angular
// acceleration across three consecutive poses against AccLimX/AccLimTheta.
type Acceleration struct {
	P0, P1, P2 graph.VertexRef
	Dt0, Dt1   graph.VertexRef
	AccLimX, AccLimTheta float64
	weight               float64
}

// NewAcceleration constructs an interior Acceleration edge.
func NewAcceleration(p0, p1, p2, dt0, dt1 graph.VertexRef, accLimX, accLimTheta, weight float64) *Acceleration {
	return &Acceleration{P0: p0, P1: p1, P2: p2, Dt0: dt0, Dt1: dt1, AccLimX: accLimX, AccLimTheta: accLimTheta, weight: weight}
}

func (e *Acceleration) Touches() []graph.VertexRef {
	return []graph.VertexRef{e.P0, e.P1, e.P2, e.Dt0, e.Dt1}
}
func (e *Acceleration) Family() graph.Family { return graph.FamilyAcceleration }
func (e *Acceleration) Weight() []float64    { return []float64{e.weight, e.weight} }

func (e *Acceleration) Residual(g *graph.Graph) []float64 {
	v1, dt0 := translationalVelocity(g, e.P0, e.P1, e.Dt0)
	v2, dt1 := translationalVelocity(g, e.P1, e.P2, e.Dt1)
	w1 := angularVelocity(g, e.P0, e.P1, e.Dt0)
	w2 := angularVelocity(g, e.P1, e.P2, e.Dt1)

	half := safeDt((dt0 + dt1) / 2)
	accLin := (v2 - v1) / half
	accAng := (w2 - w1) / half

	return []float64{
		UpperBoundPenalty(math.Abs(accLin), e.AccLimX),
		UpperBoundPenalty(math.Abs(accAng), e.AccLimTheta),
	}
}

// AccelerationStart penalizes acceleration from a supplied initial velocity
// into the first segment of the band.
type AccelerationStart struct {
	P0, P1, Dt0          graph.VertexRef
	StartVel             Velocity2D
	AccLimX, AccLimTheta float64
	weight               float64
}

// NewAccelerationStart constructs the AccelerationStart boundary edge.
func NewAccelerationStart(p0, p1, dt0 graph.VertexRef, startVel Velocity2D, accLimX, accLimTheta, weight float64) *AccelerationStart {
	return &AccelerationStart{P0: p0, P1: p1, Dt0: dt0, StartVel: startVel, AccLimX: accLimX, AccLimTheta: accLimTheta, weight: weight}
}

func (e *AccelerationStart) Touches() []graph.VertexRef { return []graph.VertexRef{e.P0, e.P1, e.Dt0} }
func (e *AccelerationStart) Family() graph.Family        { return graph.FamilyAccelerationStart }
func (e *AccelerationStart) Weight() []float64           { return []float64{e.weight, e.weight} }

func (e *AccelerationStart) Residual(g *graph.Graph) []float64 {
	v1, dt0 := translationalVelocity(g, e.P0, e.P1, e.Dt0)
	w1 := angularVelocity(g, e.P0, e.P1, e.Dt0)
	accLin := (v1 - e.StartVel.V) / dt0
	accAng := (w1 - e.StartVel.W) / dt0
	return []float64{
		UpperBoundPenalty(math.Abs(accLin), e.AccLimX),
		UpperBoundPenalty(math.Abs(accAng), e.AccLimTheta),
	}
}

// AccelerationGoal is the symmetric boundary edge at the back of the band.
type AccelerationGoal struct {
	Pn1, Pn, Dtn1        graph.VertexRef
	GoalVel              Velocity2D
	HasGoalVel           bool
	AccLimX, AccLimTheta float64
	weight               float64
}

// NewAccelerationGoal constructs the AccelerationGoal boundary edge.
func NewAccelerationGoal(pn1, pn, dtn1 graph.VertexRef, goalVel Velocity2D, hasGoalVel bool, accLimX, accLimTheta, weight float64) *AccelerationGoal {
	return &AccelerationGoal{Pn1: pn1, Pn: pn, Dtn1: dtn1, GoalVel: goalVel, HasGoalVel: hasGoalVel, AccLimX: accLimX, AccLimTheta: accLimTheta, weight: weight}
}

func (e *AccelerationGoal) Touches() []graph.VertexRef {
	return []graph.VertexRef{e.Pn1, e.Pn, e.Dtn1}
}
func (e *AccelerationGoal) Family() graph.Family { return graph.FamilyAccelerationGoal }
func (e *AccelerationGoal) Weight() []float64    { return []float64{e.weight, e.weight} }

func (e *AccelerationGoal) Residual(g *graph.Graph) []float64 {
	vLast, dt := translationalVelocity(g, e.Pn1, e.Pn, e.Dtn1)
	wLast := angularVelocity(g, e.Pn1, e.Pn, e.Dtn1)
	goalV, goalW := 0.0, 0.0
	if e.HasGoalVel {
		goalV, goalW = e.GoalVel.V, e.GoalVel.W
	}
	accLin := (goalV - vLast) / dt
	accAng := (goalW - wLast) / dt
	return []float64{
		UpperBoundPenalty(math.Abs(accLin), e.AccLimX),
		UpperBoundPenalty(math.Abs(accAng), e.AccLimTheta),
	}
}
