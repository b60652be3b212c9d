package planner

import (
	"github.com/golang/geo/r2"

	"github.com/elastictraj/teb/edges"
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/graph"
	"github.com/elastictraj/teb/obstacle"
	"github.com/elastictraj/teb/planconfig"
	"github.com/elastictraj/teb/teb"
)

// buildGraph registers every band's vertices, then adds edges in a fixed
// family order (obstacles, dynamic obstacles, via-points, velocity,
// acceleration, time-optimal, kinematics, then human variants, then
// human-robot interaction edges), skipping any family whose weight is zero.
// weightScale applies the weight ramp uniformly to every family's base
// weight.
func (p *Planner) buildGraph(weightScale float64) error {
	w := p.cfg.Optim.Weights

	p.graph.AddBand(robotOwner, p.robotTeb)
	for id, h := range p.humans {
		p.graph.AddBand(humanOwner(id), h.Teb)
	}

	var approachBand *teb.TimedElasticBand
	if p.cfg.PlanningMode == planconfig.ModeApproachHuman && p.hasApproachTarget {
		approachBand = singlePoseBand(p.approachTarget)
		p.graph.AddBand(approachOwner, approachBand)
	}

	p.addObstacleEdges(w.Obstacle*weightScale, w.HumanObstacle*weightScale)
	p.addDynamicObstacleEdges(w.DynamicObstacle * weightScale)
	p.addViaPointEdges(w.ViaPoint * weightScale)
	p.addVelocityEdges(w.VelocityCaps*weightScale, w.HumanVelocityCaps*weightScale, w.HumanNominalVelocity*weightScale)
	p.addAccelerationEdges(w.AccelerationCaps*weightScale, w.HumanAccelerationCaps*weightScale)
	p.addTimeOptimalEdges(w.TimeOptimal*weightScale, w.HumanTimeOptimal*weightScale)
	p.addKinematicsEdges(w.KinematicsNonholo*weightScale, w.KinematicsForward*weightScale, w.TurningRadius*weightScale,
		w.HumanKinematicsNonholo*weightScale, w.HumanTurningRadius*weightScale)
	p.addHumanRobotInteractionEdges(w.HumanRobotSafety*weightScale, w.HumanHumanSafety*weightScale,
		w.HumanRobotTTC*weightScale, w.HumanRobotDirectional*weightScale)

	return nil
}

// singlePoseBand wraps a single fixed pose as a one-vertex, zero-Δt band so
// planning_mode=2's approach target can be registered with the graph and
// addressed by VertexRef exactly like any human band.
func singlePoseBand(p geom.Pose) *teb.TimedElasticBand {
	return &teb.TimedElasticBand{
		Poses: []teb.PoseVertex{{Pose: p, Fixed: true}},
	}
}

func poseRef(owner string, i int) graph.VertexRef {
	return graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: i}
}

func dtRef(owner string, i int) graph.VertexRef {
	return graph.VertexRef{Owner: owner, Kind: graph.KindTimeDiff, Index: i}
}

// primaryAttachmentIndex picks the pose closest (Euclidean) to the obstacle,
// or the middle pose if the band is shorter than obstaclePosesAffected.
func primaryAttachmentIndex(band *teb.TimedElasticBand, o obstacle.Obstacle, obstaclePosesAffected int) int {
	n := band.SizePoses()
	if n < obstaclePosesAffected {
		return n / 2
	}
	best, bestDist := 0, -1.0
	for i := 0; i < n; i++ {
		d := o.DistanceToPoint(band.PoseAt(i).Pose.Point)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// attachmentIndices rejects candidate pose indices too close to either
// endpoint and expands outward from the primary index by side attachments.
// The robot and human variants use different upper bounds when validating a
// candidate index: the robot variant rejects index > size-2, while the
// human variant rejects only index > size-1 -- an off-by-one kept
// deliberately rather than silently reconciled.
func attachmentIndices(size, obstaclePosesAffected, primary int, isHuman bool) []int {
	reject := func(idx int) bool {
		if idx < 2 {
			return true
		}
		if isHuman {
			return idx > size-1
		}
		return idx > size-2
	}

	var out []int
	if !reject(primary) {
		out = append(out, primary)
	}
	side := obstaclePosesAffected / 2
	for k := 1; k <= side; k++ {
		if lo := primary - k; !reject(lo) {
			out = append(out, lo)
		}
		if hi := primary + k; !reject(hi) {
			out = append(out, hi)
		}
	}
	return out
}

func (p *Planner) addObstacleEdges(robotWeight, humanWeight float64) {
	if robotWeight > 0 {
		for _, o := range p.obstacles {
			primary := primaryAttachmentIndex(p.robotTeb, o, p.cfg.Obstacles.ObstaclePosesAffected)
			for _, idx := range attachmentIndices(p.robotTeb.SizePoses(), p.cfg.Obstacles.ObstaclePosesAffected, primary, false) {
				p.graph.AddEdge(edges.NewObstacle(poseRef(robotOwner, idx), o, p.cfg.Obstacles.MinObstacleDist, robotWeight))
			}
		}
	}

	if humanWeight > 0 {
		for id, h := range p.humans {
			owner := humanOwner(id)
			for _, o := range p.obstacles {
				primary := primaryAttachmentIndex(h.Teb, o, p.cfg.Obstacles.ObstaclePosesAffected)
				for _, idx := range attachmentIndices(h.Teb.SizePoses(), p.cfg.Obstacles.ObstaclePosesAffected, primary, true) {
					p.graph.AddEdge(edges.NewObstacle(poseRef(owner, idx), o, p.cfg.Obstacles.MinObstacleDist, humanWeight))
				}
			}
		}
	}
}

// addDynamicObstacleEdges attaches DynamicObstacle edges for the robot band
// only; there is no human_dynamic_obstacle weight in the configuration
// surface, so dynamic obstacles are a robot-only concern here.
func (p *Planner) addDynamicObstacleEdges(weight float64) {
	if weight <= 0 {
		return
	}
	for _, o := range p.obstacles {
		if !o.IsDynamic() {
			continue
		}
		primary := primaryAttachmentIndex(p.robotTeb, o, p.cfg.Obstacles.ObstaclePosesAffected)
		for _, idx := range attachmentIndices(p.robotTeb.SizePoses(), p.cfg.Obstacles.ObstaclePosesAffected, primary, false) {
			timeBefore := cumulativeTimeBefore(p.robotTeb, idx)
			var dtv graph.VertexRef
			if idx < p.robotTeb.SizeTimeDiffs() {
				dtv = dtRef(robotOwner, idx)
			} else {
				dtv = dtRef(robotOwner, idx-1)
			}
			p.graph.AddEdge(edges.NewDynamicObstacle(poseRef(robotOwner, idx), dtv, timeBefore, o, p.cfg.Obstacles.MinObstacleDist, weight))
		}
	}
}

// cumulativeTimeBefore sums every Δt strictly before pose index idx, the
// snapshot DynamicObstacle captures at build time (edges/obstacle.go's
// TimeBeforePose design note).
func cumulativeTimeBefore(band *teb.TimedElasticBand, idx int) float64 {
	var sum float64
	for i := 0; i < idx && i < band.SizeTimeDiffs(); i++ {
		sum += band.DtAt(i).Dt
	}
	return sum
}

func (p *Planner) addViaPointEdges(weight float64) {
	if weight <= 0 {
		return
	}
	for _, vp := range p.viaPoints {
		idx := nearestPoseIndex(p.robotTeb, vp.Point)
		p.graph.AddEdge(edges.NewViaPoint(poseRef(robotOwner, idx), vp, weight))
	}
	for id, pts := range p.humanViaPoints {
		h, ok := p.humans[id]
		if !ok {
			continue
		}
		owner := humanOwner(id)
		for _, vp := range pts {
			idx := nearestPoseIndex(h.Teb, vp.Point)
			p.graph.AddEdge(edges.NewViaPoint(poseRef(owner, idx), vp, weight))
		}
	}
}

func nearestPoseIndex(band *teb.TimedElasticBand, pt r2.Point) int {
	best, bestDist := 0, -1.0
	for i := 0; i < band.SizePoses(); i++ {
		d := band.PoseAt(i).Pose.DistanceToPoint(pt)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (p *Planner) addVelocityEdges(robotWeight, humanWeight, nominalWeight float64) {
	if robotWeight > 0 {
		for i := 0; i < p.robotTeb.SizeTimeDiffs(); i++ {
			p.graph.AddEdge(edges.NewVelocity(poseRef(robotOwner, i), poseRef(robotOwner, i+1), dtRef(robotOwner, i),
				p.cfg.Robot.MaxVelX, p.cfg.Robot.MaxVelTheta, robotWeight))
		}
	}
	if humanWeight > 0 {
		for id, h := range p.humans {
			owner := humanOwner(id)
			nominal := h.StartVel.V
			for i := 0; i < h.Teb.SizeTimeDiffs(); i++ {
				p.graph.AddEdge(edges.NewVelocityHuman(poseRef(owner, i), poseRef(owner, i+1), dtRef(owner, i),
					p.cfg.Robot.MaxVelX, p.cfg.Robot.MaxVelTheta, nominal, humanWeight, nominalWeight))
			}
		}
	}
}

func (p *Planner) addAccelerationEdges(robotWeight, humanWeight float64) {
	if robotWeight > 0 {
		n := p.robotTeb.SizePoses()
		for i := 0; i+2 < n; i++ {
			p.graph.AddEdge(edges.NewAcceleration(poseRef(robotOwner, i), poseRef(robotOwner, i+1), poseRef(robotOwner, i+2),
				dtRef(robotOwner, i), dtRef(robotOwner, i+1), p.cfg.Robot.AccLimX, p.cfg.Robot.AccLimTheta, robotWeight))
		}
		if n >= 2 {
			p.graph.AddEdge(edges.NewAccelerationStart(poseRef(robotOwner, 0), poseRef(robotOwner, 1), dtRef(robotOwner, 0),
				edges.Velocity2D{V: p.robotStartVel.V, W: p.robotStartVel.W}, p.cfg.Robot.AccLimX, p.cfg.Robot.AccLimTheta, robotWeight))
			// A free goal velocity means no terminal-acceleration constraint at
			// all, not one pinned to zero -- only add the edge when a goal
			// velocity boundary condition was actually set.
			if p.robotHasGoalVel {
				p.graph.AddEdge(edges.NewAccelerationGoal(poseRef(robotOwner, n-2), poseRef(robotOwner, n-1), dtRef(robotOwner, n-2),
					p.robotGoalVel, p.robotHasGoalVel, p.cfg.Robot.AccLimX, p.cfg.Robot.AccLimTheta, robotWeight))
			}
		}
	}

	if humanWeight > 0 {
		for id, h := range p.humans {
			owner := humanOwner(id)
			n := h.Teb.SizePoses()
			for i := 0; i+2 < n; i++ {
				p.graph.AddEdge(edges.NewAcceleration(poseRef(owner, i), poseRef(owner, i+1), poseRef(owner, i+2),
					dtRef(owner, i), dtRef(owner, i+1), p.cfg.Robot.AccLimX, p.cfg.Robot.AccLimTheta, humanWeight))
			}
			// No AccelerationGoal for humans: goal velocity is intentionally
			// disabled for humans.
			if n >= 2 && h.HasStartVel {
				p.graph.AddEdge(edges.NewAccelerationStart(poseRef(owner, 0), poseRef(owner, 1), dtRef(owner, 0),
					h.StartVel, p.cfg.Robot.AccLimX, p.cfg.Robot.AccLimTheta, humanWeight))
			}
		}
	}
}

func (p *Planner) addTimeOptimalEdges(robotWeight, humanWeight float64) {
	if robotWeight > 0 {
		for i := 0; i < p.robotTeb.SizeTimeDiffs(); i++ {
			p.graph.AddEdge(edges.NewTimeOptimal(dtRef(robotOwner, i), robotWeight))
		}
	}
	if humanWeight > 0 {
		for id, h := range p.humans {
			owner := humanOwner(id)
			for i := 0; i < h.Teb.SizeTimeDiffs(); i++ {
				p.graph.AddEdge(edges.NewTimeOptimal(dtRef(owner, i), humanWeight))
			}
		}
	}
}

// addKinematicsEdges selects between the differential-drive and car-like
// kinematics families: differential-drive if min_turning_radius == 0,
// otherwise car-like.
func (p *Planner) addKinematicsEdges(robotNonholoW, robotForwardW, robotTurnW, humanNonholoW, humanTurnW float64) {
	robotCarlike := p.cfg.Robot.MinTurningRadius != 0

	// The family's own weight vector is [nonholo, forward] for diff-drive but
	// [nonholo, turn] for car-like (edges/kinematics.go's Weight()), so the
	// two variants need different existence gates. The car-like gate has two
	// readings: the legacy one reproduces the original's disabling check
	// literally (edges.ShouldSkipCarlikeFamily), which skips the whole family
	// whenever nonholo is exactly zero and turn is nonzero -- including the
	// case turn>0, nonholo==0, where a sanitized "either weight nonzero" OR
	// would add it. LegacyCarlikeFamilyGate toggles between the two.
	robotFamilyWeight := robotNonholoW > 0 || robotForwardW > 0
	if robotCarlike {
		if p.cfg.Optim.LegacyCarlikeFamilyGate {
			robotFamilyWeight = !edges.ShouldSkipCarlikeFamily(robotNonholoW, robotTurnW)
		} else {
			robotFamilyWeight = robotNonholoW > 0 || robotTurnW > 0
		}
	}

	if robotFamilyWeight {
		for i := 0; i < p.robotTeb.SizeTimeDiffs(); i++ {
			if robotCarlike {
				p.graph.AddEdge(edges.NewKinematicsCarlike(poseRef(robotOwner, i), poseRef(robotOwner, i+1), dtRef(robotOwner, i),
					p.cfg.Robot.MinTurningRadius, robotNonholoW, robotTurnW))
			} else {
				p.graph.AddEdge(edges.NewKinematicsDiffDrive(poseRef(robotOwner, i), poseRef(robotOwner, i+1),
					p.cfg.Robot.AllowInPlaceRotation, robotNonholoW, robotForwardW))
			}
		}
	}

	if humanNonholoW > 0 {
		humanCarlike := humanTurnW > 0 && p.cfg.Robot.MinTurningRadius != 0
		for id, h := range p.humans {
			owner := humanOwner(id)
			for i := 0; i < h.Teb.SizeTimeDiffs(); i++ {
				if humanCarlike {
					p.graph.AddEdge(edges.NewKinematicsCarlike(poseRef(owner, i), poseRef(owner, i+1), dtRef(owner, i),
						p.cfg.Robot.MinTurningRadius, humanNonholoW, humanTurnW))
				} else {
					p.graph.AddEdge(edges.NewKinematicsDiffDrive(poseRef(owner, i), poseRef(owner, i+1), true, humanNonholoW, 0))
				}
			}
		}
	}
}

// addHumanRobotInteractionEdges attaches the human-robot and human-human
// safety/TTC/directional edges, for both planning_mode=1 (co-planned, every
// tracked human) and planning_mode=2 (the approach band substituted for the
// sole human).
func (p *Planner) addHumanRobotInteractionEdges(safetyW, humanHumanW, ttcW, directionalW float64) {
	inflated := p.cfg.Obstacles.MinObstacleDist

	humanIDs := make([]uint64, 0, len(p.humans))
	for id := range p.humans {
		humanIDs = append(humanIDs, id)
	}

	if p.cfg.PlanningMode == planconfig.ModeApproachHuman && p.hasApproachTarget {
		if safetyW > 0 {
			p.graph.AddEdge(edges.NewHumanRobotSafety(poseRef(robotOwner, 0), poseRef(approachOwner, 0), inflated, safetyW))
		}
		return
	}

	if safetyW > 0 {
		for id, h := range p.humans {
			owner := humanOwner(id)
			n := minInt(p.robotTeb.SizePoses(), h.Teb.SizePoses())
			for i := 0; i < n; i++ {
				p.graph.AddEdge(edges.NewHumanRobotSafety(poseRef(robotOwner, i), poseRef(owner, i), inflated, safetyW))
			}
		}
	}

	if humanHumanW > 0 {
		for i := 0; i < len(humanIDs); i++ {
			for j := i + 1; j < len(humanIDs); j++ {
				hi, hj := p.humans[humanIDs[i]], p.humans[humanIDs[j]]
				n := minInt(hi.Teb.SizePoses(), hj.Teb.SizePoses())
				ownerI, ownerJ := humanOwner(humanIDs[i]), humanOwner(humanIDs[j])
				for k := 0; k < n; k++ {
					p.graph.AddEdge(edges.NewHumanHumanSafety(poseRef(ownerI, k), poseRef(ownerJ, k), inflated, humanHumanW))
				}
			}
		}
	}

	if ttcW > 0 || directionalW > 0 {
		for id, h := range p.humans {
			owner := humanOwner(id)
			n := minInt(p.robotTeb.SizeTimeDiffs(), h.Teb.SizeTimeDiffs())
			for i := 0; i < n; i++ {
				if ttcW > 0 {
					p.graph.AddEdge(edges.NewHumanRobotTTC(poseRef(robotOwner, i), poseRef(robotOwner, i+1), dtRef(robotOwner, i),
						poseRef(owner, i), poseRef(owner, i+1), dtRef(owner, i), p.cfg.Obstacles.MinObstacleDist, ttcW))
				}
				if directionalW > 0 {
					p.graph.AddEdge(edges.NewHumanRobotDirectional(poseRef(robotOwner, i), poseRef(robotOwner, i+1), dtRef(robotOwner, i),
						poseRef(owner, i), poseRef(owner, i+1), dtRef(owner, i), directionalConeCos, directionalW))
				}
			}
		}
	}
}

// directionalConeCos is cos(30deg), the half-angle of the head-on cone used
// by HumanRobotDirectional.
const directionalConeCos = 0.8660254037844387

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
