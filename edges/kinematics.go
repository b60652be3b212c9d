package edges

import (
	"math"

	"github.com/elastictraj/teb/graph"
)

// nonholonomyResidual penalizes motion with a component perpendicular to the
// averaged heading of the two poses -- translational motion must occur
// parallel to the vehicle's heading (the GLOSSARY's nonholonomic
// constraint).
func nonholonomyResidual(g *graph.Graph, p0, p1 graph.VertexRef) float64 {
	a := g.Pose(p0)
	b := g.Pose(p1)
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	return (math.Cos(a.Theta)+math.Cos(b.Theta))*dy - (math.Sin(a.Theta)+math.Sin(b.Theta))*dx
}

// forwardDriveResidual penalizes backward translation relative to the first
// pose's heading, expressing a forward-drive preference.
func forwardDriveResidual(g *graph.Graph, p0, p1 graph.VertexRef) float64 {
	a := g.Pose(p0)
	b := g.Pose(p1)
	disp := b.Point.Sub(a.Point)
	forward := disp.Dot(a.HeadingVector())
	return LowerBoundPenalty(forward, 0)
}

// KinematicsDiffDrive enforces nonholonomy and a forward-drive preference
// between two consecutive poses for a differential-drive robot. When
// AllowInPlaceRotation is set, the nonholonomy residual is relaxed near zero
// translational speed so the robot may rotate in place.
type KinematicsDiffDrive struct {
	P0, P1               graph.VertexRef
	AllowInPlaceRotation bool
	weightNonholo        float64
	weightForward        float64
}

// NewKinematicsDiffDrive constructs a KinematicsDiffDrive edge.
func NewKinematicsDiffDrive(p0, p1 graph.VertexRef, allowInPlaceRotation bool, weightNonholo, weightForward float64) *KinematicsDiffDrive {
	return &KinematicsDiffDrive{P0: p0, P1: p1, AllowInPlaceRotation: allowInPlaceRotation, weightNonholo: weightNonholo, weightForward: weightForward}
}

func (e *KinematicsDiffDrive) Touches() []graph.VertexRef { return []graph.VertexRef{e.P0, e.P1} }
func (e *KinematicsDiffDrive) Family() graph.Family        { return graph.FamilyKinematicsDiffDrive }
func (e *KinematicsDiffDrive) Weight() []float64           { return []float64{e.weightNonholo, e.weightForward} }

func (e *KinematicsDiffDrive) Residual(g *graph.Graph) []float64 {
	nonholo := nonholonomyResidual(g, e.P0, e.P1)
	if e.AllowInPlaceRotation {
		a := g.Pose(e.P0)
		b := g.Pose(e.P1)
		if a.Point.Sub(b.Point).Norm() < 1e-3 {
			nonholo = 0
		}
	}
	return []float64{nonholo, forwardDriveResidual(g, e.P0, e.P1)}
}

// KinematicsCarlike enforces nonholonomy plus a lower bound on the
// instantaneous turning radius for a car-like robot. Both a nonzero
// turning-radius weight and a nonzero MinTurningRadius are required for the
// radius term itself to contribute to the residual -- see
// ShouldAddCarlikeKinematics. Whether the whole family gets built in the
// first place is a separate decision made by the caller; see
// ShouldSkipCarlikeFamily.
type KinematicsCarlike struct {
	P0, P1            graph.VertexRef
	Dt                graph.VertexRef
	MinTurningRadius  float64
	weightNonholo     float64
	weightTurnRadius  float64
}

// NewKinematicsCarlike constructs a KinematicsCarlike edge.
func NewKinematicsCarlike(p0, p1, dt graph.VertexRef, minTurningRadius, weightNonholo, weightTurnRadius float64) *KinematicsCarlike {
	return &KinematicsCarlike{P0: p0, P1: p1, Dt: dt, MinTurningRadius: minTurningRadius, weightNonholo: weightNonholo, weightTurnRadius: weightTurnRadius}
}

// ShouldAddCarlikeKinematics decides whether to add the turning-radius
// penalty component to a single edge's residual.
func ShouldAddCarlikeKinematics(weightTurnRadius, minTurningRadius float64) bool {
	return weightTurnRadius != 0 && minTurningRadius != 0
}

// ShouldSkipCarlikeFamily reproduces, literally, the disabling check the
// original uses to decide whether to build the carlike kinematics family at
// all: `weight_kinematics_nh == 0 && weight_kinematics_turning_radius`, an
// unparenthesized C++ truthiness test on the turning-radius weight rather
// than an explicit `!= 0` comparison. Go has no implicit numeric-to-bool
// conversion, so the truthiness check is spelled out as `turn != 0` here,
// giving the same truth table: the family is skipped only when nh is exactly
// zero and turn is exactly nonzero.
func ShouldSkipCarlikeFamily(weightNonholo, weightTurnRadius float64) bool {
	return weightNonholo == 0 && weightTurnRadius != 0
}

func (e *KinematicsCarlike) Touches() []graph.VertexRef { return []graph.VertexRef{e.P0, e.P1, e.Dt} }
func (e *KinematicsCarlike) Family() graph.Family        { return graph.FamilyKinematicsCarlike }
func (e *KinematicsCarlike) Weight() []float64           { return []float64{e.weightNonholo, e.weightTurnRadius} }

func (e *KinematicsCarlike) Residual(g *graph.Graph) []float64 {
	nonholo := nonholonomyResidual(g, e.P0, e.P1)

	var radiusPenalty float64
	if ShouldAddCarlikeKinematics(e.weightTurnRadius, e.MinTurningRadius) {
		v, dt := translationalVelocity(g, e.P0, e.P1, e.Dt)
		w := angularVelocity(g, e.P0, e.P1, e.Dt)
		_ = dt
		if math.Abs(w) > 1e-9 {
			radius := math.Abs(v / w)
			radiusPenalty = LowerBoundPenalty(radius, e.MinTurningRadius)
		}
	}

	return []float64{nonholo, radiusPenalty}
}
