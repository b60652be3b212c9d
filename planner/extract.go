package planner

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/elastictraj/teb/edges"
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/teberrors"
)

// GetVelocityCommand computes the signed projection of (P1-P0) onto P0's
// heading divided by Δt0 for v, and the normalized heading delta divided by
// Δt0 for ω. Requires at least two poses and a positive Δt0.
func (p *Planner) GetVelocityCommand() (v, w float64, err error) {
	if p.robotTeb == nil || p.robotTeb.SizePoses() < 2 {
		return 0, 0, teberrors.ErrNoTrajectory
	}
	dt0 := p.robotTeb.DtAt(0).Dt
	if dt0 <= 0 {
		return 0, 0, teberrors.ErrInvalidInput
	}
	p0 := p.robotTeb.PoseAt(0).Pose
	p1 := p.robotTeb.PoseAt(1).Pose
	disp := p1.Point.Sub(p0.Point)
	v = disp.Dot(p0.HeadingVector()) / dt0
	w = geom.AngleDiff(p0.Theta, p1.Theta) / dt0
	return v, w, nil
}

// TrajectorySample is one sample of the extracted trajectory: a pose, its
// velocity, and the cumulative time since the first pose.
type TrajectorySample struct {
	Pose           geom.Pose
	Velocity       edges.Velocity2D
	CumulativeTime float64
}

// GetFullTrajectory returns one sample per pose, with interior velocities
// averaged from the backward and forward finite differences and endpoint
// velocities taken from the supplied boundary conditions.
func (p *Planner) GetFullTrajectory() ([]TrajectorySample, error) {
	return extractTrajectory(
		p.robotTeb.PoseValues(), p.robotTeb.DtValues(),
		p.robotStartVel, p.robotHasStartVel,
		p.robotGoalVel, p.robotHasGoalVel,
	)
}

// GetHumanTrajectory returns a human's trajectory on request, for mode 1.
func (p *Planner) GetHumanTrajectory(id uint64) ([]TrajectorySample, error) {
	h, ok := p.humans[id]
	if !ok {
		return nil, teberrors.ErrNoTrajectory
	}
	return extractTrajectory(
		h.Teb.PoseValues(), h.Teb.DtValues(),
		h.StartVel, h.HasStartVel,
		edges.Velocity2D{}, false,
	)
}

func extractTrajectory(poses []geom.Pose, dts []float64, startVel edges.Velocity2D, hasStartVel bool, goalVel edges.Velocity2D, hasGoalVel bool) ([]TrajectorySample, error) {
	n := len(poses)
	if n < 2 {
		return nil, teberrors.ErrNoTrajectory
	}

	samples := make([]TrajectorySample, n)
	var cumulative float64
	for i := 0; i < n; i++ {
		samples[i].Pose = poses[i]
		samples[i].CumulativeTime = cumulative
		if i < len(dts) {
			cumulative += dts[i]
		}
	}

	for i := 0; i < n; i++ {
		switch {
		case i == 0:
			if hasStartVel {
				samples[i].Velocity = startVel
			} else {
				samples[i].Velocity = segmentVelocity(poses[0], poses[1], dts[0])
			}
		case i == n-1:
			if hasGoalVel {
				samples[i].Velocity = goalVel
			} else {
				samples[i].Velocity = segmentVelocity(poses[n-2], poses[n-1], dts[n-2])
			}
		default:
			back := segmentVelocity(poses[i-1], poses[i], dts[i-1])
			fwd := segmentVelocity(poses[i], poses[i+1], dts[i])
			samples[i].Velocity = edges.Velocity2D{V: (back.V + fwd.V) / 2, W: (back.W + fwd.W) / 2}
		}
	}
	return samples, nil
}

func segmentVelocity(a, b geom.Pose, dt float64) edges.Velocity2D {
	if dt < 1e-6 {
		dt = 1e-6
	}
	disp := b.Point.Sub(a.Point)
	v := disp.Dot(a.HeadingVector()) / dt
	w := geom.AngleDiff(a.Theta, b.Theta) / dt
	return edges.Velocity2D{V: v, W: w}
}

// CostmapModel is the external collaborator this package treats as out of
// scope: FootprintCost reports the cost-map's footprint cost at a pose,
// where a negative value denotes infeasibility.
type CostmapModel interface {
	FootprintCost(pose geom.Pose, footprint []r2.Point, rIn, rCirc float64) float64
}

// IsTrajectoryFeasible checks, for each pose up to lookAhead, the cost-map
// footprint cost; if any pose is infeasible, it returns false. If
// consecutive poses are farther apart than rIn, it interpolates a midpoint
// and re-checks that too.
func (p *Planner) IsTrajectoryFeasible(model CostmapModel, footprint []r2.Point, rIn, rCirc float64, lookAhead int) bool {
	poses := p.robotTeb.PoseValues()
	n := len(poses)
	if lookAhead < n {
		n = lookAhead
	}
	for i := 0; i < n; i++ {
		if model.FootprintCost(poses[i], footprint, rIn, rCirc) < 0 {
			return false
		}
		if i+1 < n && poses[i].DistanceTo(poses[i+1]) > rIn {
			mid := geom.Midpoint(poses[i], poses[i+1])
			if model.FootprintCost(mid, footprint, rIn, rCirc) < 0 {
				return false
			}
		}
	}
	return true
}

// IsHorizonReductionAppropriate decides whether the robot's planning horizon
// should shrink: a sharp heading change to the goal, a goal behind the
// robot, an overly long segment, or a band that has shrunk well below the
// length of the original plan.
func (p *Planner) IsHorizonReductionAppropriate(initialPlan []geom.Pose) bool {
	if p.robotTeb == nil {
		return false
	}
	band := p.robotTeb
	minSamples := p.cfg.Trajectory.MinSamples
	if band.SizePoses() < (minSamples*3)/2 {
		return false
	}
	bandLength := polylineLength(band.PoseValues())
	if bandLength < 2.0 {
		return false
	}

	start := band.Front()
	goal := band.Back()

	headingDelta := math.Abs(geom.AngleDiff(start.Theta, geom.HeadingTo(start.Point, goal.Point)))
	if headingDelta > math.Pi/2 {
		return true
	}

	toGoal := goal.Point.Sub(start.Point)
	if toGoal.Dot(start.HeadingVector()) < 0 {
		return true
	}

	poses := band.PoseValues()
	for i := 0; i+1 < len(poses); i++ {
		if poses[i].DistanceTo(poses[i+1]) > 0.95*p.cfg.Obstacles.MinObstacleDist {
			return true
		}
	}

	// math.Sqrt is never negative for a non-negative input, so this check is
	// a no-op guard kept for parity with an always-true sub-check upstream
	// rather than removed outright.
	if math.Sqrt(bandLength) >= 0 {
		initialLength := polylineLength(initialPlan)
		if initialLength > 0 && bandLength/initialLength < 0.7 {
			return true
		}
	}

	return false
}

func polylineLength(poses []geom.Pose) float64 {
	var sum float64
	for i := 0; i+1 < len(poses); i++ {
		sum += poses[i].DistanceTo(poses[i+1])
	}
	return sum
}
