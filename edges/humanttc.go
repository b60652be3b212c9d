package edges

import (
	"math"

	"github.com/elastictraj/teb/graph"
)

// finiteDiffVelocity2D returns the planar linear velocity vector between two
// poses over dt, the "inferred velocity" the TTC/directional edges use.
func finiteDiffVelocity2D(g *graph.Graph, p0, p1, dtRef graph.VertexRef) (vx, vy float64) {
	a := g.Pose(p0)
	b := g.Pose(p1)
	dt := safeDt(g.Dt(dtRef))
	return (b.X() - a.X()) / dt, (b.Y() - a.Y()) / dt
}

// timeToCollision computes the time until the minimum separation between two
// constant-velocity point tracks, given their current positions and
// inferred velocities. It returns +Inf if the tracks are not closing.
func timeToCollision(rx, ry, rvx, rvy, hx, hy, hvx, hvy float64) float64 {
	relPX, relPY := rx-hx, ry-hy
	relVX, relVY := rvx-hvx, rvy-hvy
	denom := relVX*relVX + relVY*relVY
	if denom < 1e-9 {
		return math.Inf(1)
	}
	t := -(relPX*relVX + relPY*relVY) / denom
	if t < 0 {
		return math.Inf(1)
	}
	return t
}

// HumanRobotTTC penalizes configurations whose time-to-collision, computed
// from current positions and finite-difference velocities, falls below a
// threshold.
type HumanRobotTTC struct {
	RobotP0, RobotP1, RobotDt graph.VertexRef
	HumanP0, HumanP1, HumanDt graph.VertexRef
	ThresholdSeconds          float64
	weight                    float64
}

// NewHumanRobotTTC constructs a HumanRobotTTC edge.
func NewHumanRobotTTC(robotP0, robotP1, robotDt, humanP0, humanP1, humanDt graph.VertexRef, thresholdSeconds, weight float64) *HumanRobotTTC {
	return &HumanRobotTTC{
		RobotP0: robotP0, RobotP1: robotP1, RobotDt: robotDt,
		HumanP0: humanP0, HumanP1: humanP1, HumanDt: humanDt,
		ThresholdSeconds: thresholdSeconds, weight: weight,
	}
}

func (e *HumanRobotTTC) Touches() []graph.VertexRef {
	return []graph.VertexRef{e.RobotP0, e.RobotP1, e.RobotDt, e.HumanP0, e.HumanP1, e.HumanDt}
}
func (e *HumanRobotTTC) Family() graph.Family { return graph.FamilyHumanRobotTTC }
func (e *HumanRobotTTC) Weight() []float64    { return []float64{e.weight} }

func (e *HumanRobotTTC) Residual(g *graph.Graph) []float64 {
	robot := g.Pose(e.RobotP0)
	human := g.Pose(e.HumanP0)
	rvx, rvy := finiteDiffVelocity2D(g, e.RobotP0, e.RobotP1, e.RobotDt)
	hvx, hvy := finiteDiffVelocity2D(g, e.HumanP0, e.HumanP1, e.HumanDt)
	ttc := timeToCollision(robot.X(), robot.Y(), rvx, rvy, human.X(), human.Y(), hvx, hvy)
	if math.IsInf(ttc, 1) {
		return []float64{0}
	}
	return []float64{LowerBoundPenalty(ttc, e.ThresholdSeconds)}
}

// HumanRobotDirectional penalizes the robot heading nearly directly at the
// human within a cone while the pair is closing.
type HumanRobotDirectional struct {
	RobotP0, RobotP1, RobotDt graph.VertexRef
	HumanP0, HumanP1, HumanDt graph.VertexRef
	ConeCosThreshold          float64
	weight                    float64
}

// NewHumanRobotDirectional constructs a HumanRobotDirectional edge.
// ConeCosThreshold is cos of the half-angle of the head-on cone (e.g.
// cos(30deg) ~= 0.866 for a narrow cone).
func NewHumanRobotDirectional(robotP0, robotP1, robotDt, humanP0, humanP1, humanDt graph.VertexRef, coneCosThreshold, weight float64) *HumanRobotDirectional {
	return &HumanRobotDirectional{
		RobotP0: robotP0, RobotP1: robotP1, RobotDt: robotDt,
		HumanP0: humanP0, HumanP1: humanP1, HumanDt: humanDt,
		ConeCosThreshold: coneCosThreshold, weight: weight,
	}
}

func (e *HumanRobotDirectional) Touches() []graph.VertexRef {
	return []graph.VertexRef{e.RobotP0, e.RobotP1, e.RobotDt, e.HumanP0, e.HumanP1, e.HumanDt}
}
func (e *HumanRobotDirectional) Family() graph.Family { return graph.FamilyHumanRobotDirectional }
func (e *HumanRobotDirectional) Weight() []float64    { return []float64{e.weight} }

func (e *HumanRobotDirectional) Residual(g *graph.Graph) []float64 {
	robot := g.Pose(e.RobotP0)
	human := g.Pose(e.HumanP0)
	rvx, rvy := finiteDiffVelocity2D(g, e.RobotP0, e.RobotP1, e.RobotDt)
	hvx, hvy := finiteDiffVelocity2D(g, e.HumanP0, e.HumanP1, e.HumanDt)

	toHumanX, toHumanY := human.X()-robot.X(), human.Y()-robot.Y()
	toHumanNorm := math.Hypot(toHumanX, toHumanY)
	if toHumanNorm < 1e-6 {
		return []float64{0}
	}
	toHumanX, toHumanY = toHumanX/toHumanNorm, toHumanY/toHumanNorm

	closing := (rvx-hvx)*toHumanX+(rvy-hvy)*toHumanY > 0
	if !closing {
		return []float64{0}
	}

	cosAngle := robot.HeadingVector().X*toHumanX + robot.HeadingVector().Y*toHumanY
	return []float64{UpperBoundPenalty(cosAngle, e.ConeCosThreshold)}
}
