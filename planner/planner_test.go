package planner

import (
	"testing"

	"go.viam.com/test"

	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/graph"
	"github.com/elastictraj/teb/logging"
	"github.com/elastictraj/teb/obstacle"
	"github.com/elastictraj/teb/planconfig"
	"github.com/elastictraj/teb/teb"
	"github.com/elastictraj/teb/teberrors"
	"github.com/golang/geo/r2"
)

func countFamily(g *graph.Graph, fam graph.Family) int {
	n := 0
	for _, e := range g.Edges() {
		if e.Family() == fam {
			n++
		}
	}
	return n
}

func straightPlan() []geom.Pose {
	return []geom.Pose{geom.NewPose(0, 0, 0), geom.NewPose(5, 0, 0)}
}

func TestPlanRejectsShortInitialPlan(t *testing.T) {
	p := New(planconfig.Default(), logging.NewTestLogger(t))
	ok, err := p.Plan(PlanInput{InitialPlan: []geom.Pose{geom.NewPose(0, 0, 0)}})
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, err, test.ShouldEqual, teberrors.ErrInvalidInput)
}

func TestPlanRobotOnlyClearsHumanState(t *testing.T) {
	p := New(planconfig.Default(), logging.NewTestLogger(t))
	p.humans[42] = &HumanState{Teb: &teb.TimedElasticBand{
		Poses: []teb.PoseVertex{{Pose: geom.NewPose(0, 0, 0), Fixed: true}},
	}}

	_, err := p.Plan(PlanInput{InitialPlan: straightPlan(), FreeGoalVel: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(p.humans), test.ShouldEqual, 0)
}

func TestPlanDisabledRobotReturnsFalseNoError(t *testing.T) {
	cfg := planconfig.Default()
	cfg.Robot.MaxVelX = 0.0
	p := New(cfg, logging.NewTestLogger(t))
	ok, err := p.Plan(PlanInput{InitialPlan: straightPlan(), FreeGoalVel: true})
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, err, test.ShouldBeNil)
}

func TestPlanOptimizationNotActivatedReturnsFalse(t *testing.T) {
	cfg := planconfig.Default()
	cfg.Optim.OptimizationActivate = false
	p := New(cfg, logging.NewTestLogger(t))
	ok, err := p.Plan(PlanInput{InitialPlan: straightPlan(), FreeGoalVel: true})
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, err, test.ShouldBeNil)
}

func TestGetVelocityCommandRequiresATrajectory(t *testing.T) {
	p := New(planconfig.Default(), logging.NewTestLogger(t))
	_, _, err := p.GetVelocityCommand()
	test.That(t, err, test.ShouldEqual, teberrors.ErrNoTrajectory)
}

func TestIsHorizonReductionAppropriateFalseWithoutATeb(t *testing.T) {
	p := New(planconfig.Default(), logging.NewTestLogger(t))
	test.That(t, p.IsHorizonReductionAppropriate(straightPlan()), test.ShouldBeFalse)
}

func TestHumanOwnerKeyFormat(t *testing.T) {
	test.That(t, humanOwner(42), test.ShouldEqual, "human:42")
	test.That(t, humanOwner(0), test.ShouldEqual, "human:0")
}

func TestRampScaleLinearRampThenSaturates(t *testing.T) {
	p := New(planconfig.Default(), logging.NewTestLogger(t))
	p.cfg.Optim.WeightRampIterations = 4

	p.itersSinceReinit = 0
	test.That(t, p.rampScale(), test.ShouldAlmostEqual, 0.25, 1e-9)
	p.itersSinceReinit = 3
	test.That(t, p.rampScale(), test.ShouldAlmostEqual, 1.0, 1e-9)
	p.itersSinceReinit = 10
	test.That(t, p.rampScale(), test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestRampScaleDisabledAlwaysFullWeight(t *testing.T) {
	p := New(planconfig.Default(), logging.NewTestLogger(t))
	p.cfg.Optim.WeightRampIterations = 0
	p.itersSinceReinit = 0
	test.That(t, p.rampScale(), test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestAttachmentIndicesRobotVariantRejectsLastPose(t *testing.T) {
	// size=5, obstaclePosesAffected=2, primary at the last index (4): the
	// robot variant's upper bound (idx > size-2) rejects it, leaving only
	// the side-expansion index below it.
	got := attachmentIndices(5, 2, 4, false)
	test.That(t, got, test.ShouldResemble, []int{3})
}

func TestAttachmentIndicesHumanVariantAllowsLastPose(t *testing.T) {
	// Same inputs, human variant: the upper bound (idx > size-1) does not
	// reject the last pose, so the off-by-one difference surfaces here.
	got := attachmentIndices(5, 2, 4, true)
	test.That(t, got, test.ShouldResemble, []int{4, 3})
}

func TestAttachmentIndicesRejectsPrimaryBelowTwoButStillExpandsSides(t *testing.T) {
	// primary=1 is rejected outright (idx < 2), but the side expansion at
	// primary+1=2 clears every bound and is kept.
	got := attachmentIndices(10, 2, 1, false)
	test.That(t, got, test.ShouldResemble, []int{2})
}

func TestPrimaryAttachmentIndexPicksClosestPose(t *testing.T) {
	band := &teb.TimedElasticBand{Poses: []teb.PoseVertex{
		{Pose: geom.NewPose(0, 0, 0)},
		{Pose: geom.NewPose(1, 0, 0)},
		{Pose: geom.NewPose(2, 0, 0)},
		{Pose: geom.NewPose(3, 0, 0)},
		{Pose: geom.NewPose(4, 0, 0)},
	}}
	o := obstacle.NewPointObstacle(r2.Point{X: 2.1, Y: 0}, obstacle.SourceDirect)
	test.That(t, primaryAttachmentIndex(band, o, 2), test.ShouldEqual, 2)
}

func TestPrimaryAttachmentIndexFallsBackToMiddleOnShortBand(t *testing.T) {
	band := &teb.TimedElasticBand{Poses: []teb.PoseVertex{{Pose: geom.NewPose(0, 0, 0)}}}
	o := obstacle.NewPointObstacle(r2.Point{X: 10, Y: 10}, obstacle.SourceDirect)
	test.That(t, primaryAttachmentIndex(band, o, 4), test.ShouldEqual, 0)
}

func TestPlanCoPlannedModeBuildsHumanState(t *testing.T) {
	cfg := planconfig.Default()
	cfg.PlanningMode = planconfig.ModeCoPlanned
	p := New(cfg, logging.NewTestLogger(t))

	humanPlan := []geom.Pose{geom.NewPose(0, 5, 0), geom.NewPose(5, 5, 0)}
	in := PlanInput{
		InitialPlan: straightPlan(),
		FreeGoalVel: true,
		Humans:      map[uint64]HumanInput{7: {Plan: humanPlan}},
	}

	_, err := p.Plan(in)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(p.humans), test.ShouldEqual, 1)

	h, ok := p.humans[7]
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, h.Teb.SizePoses() >= cfg.Trajectory.HumanMinSamples, test.ShouldBeTrue)
}

func TestPlanApproachModeSetsApproachTargetFromSoleHuman(t *testing.T) {
	cfg := planconfig.Default()
	cfg.PlanningMode = planconfig.ModeApproachHuman
	p := New(cfg, logging.NewTestLogger(t))

	humanPlan := []geom.Pose{geom.NewPose(3, 4, 0)}
	in := PlanInput{
		InitialPlan: straightPlan(),
		FreeGoalVel: true,
		Humans:      map[uint64]HumanInput{1: {Plan: humanPlan}},
	}

	_, err := p.Plan(in)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(p.humans), test.ShouldEqual, 0)
	test.That(t, p.hasApproachTarget, test.ShouldBeTrue)
	test.That(t, p.approachTarget.X(), test.ShouldAlmostEqual, 3.0, 1e-9)
	test.That(t, p.approachTarget.Y(), test.ShouldAlmostEqual, 4.0, 1e-9)
}

// TestAccelerationGoalEdgeOnlyAddedWhenGoalVelIsPinned regression-tests the
// AccelerationGoal gate directly: buildGraph's outer optimize loop clears the
// graph at the end of every iteration, so a full Plan()-level call cannot
// observe the edge set afterward, and the private build step is inspected
// instead.
func TestAccelerationGoalEdgeOnlyAddedWhenGoalVelIsPinned(t *testing.T) {
	cfg := planconfig.Default()
	p := New(cfg, logging.NewTestLogger(t))

	band, err := teb.NewFromPlan(straightPlan(), cfg.Trajectory.DtRef, cfg.Trajectory.TebInitSkipDist, cfg.Trajectory.MinSamples, true)
	test.That(t, err, test.ShouldBeNil)
	p.robotTeb = band

	p.applyRobotVelocityBoundaries(nil, true, nil)
	test.That(t, p.robotHasGoalVel, test.ShouldBeFalse)
	test.That(t, p.buildGraph(1.0), test.ShouldBeNil)
	test.That(t, countFamily(p.graph, graph.FamilyAccelerationGoal), test.ShouldEqual, 0)
	p.graph.Clear()

	p.applyRobotVelocityBoundaries(nil, false, nil)
	test.That(t, p.robotHasGoalVel, test.ShouldBeTrue)
	test.That(t, p.buildGraph(1.0), test.ShouldBeNil)
	test.That(t, countFamily(p.graph, graph.FamilyAccelerationGoal), test.ShouldEqual, 1)
}

// TestCarlikeFamilyGateMatchesLegacyFlag covers the case the legacy/sanitized
// gates disagree on: nonholo weight exactly zero, turning-radius weight
// nonzero. The legacy reading skips the whole family there; the sanitized OR
// would add it.
func TestCarlikeFamilyGateMatchesLegacyFlag(t *testing.T) {
	cfg := planconfig.Default()
	cfg.Robot.MinTurningRadius = 2.0

	band, err := teb.NewFromPlan(straightPlan(), cfg.Trajectory.DtRef, cfg.Trajectory.TebInitSkipDist, cfg.Trajectory.MinSamples, true)
	test.That(t, err, test.ShouldBeNil)

	p := New(cfg, logging.NewTestLogger(t))
	p.robotTeb = band
	p.cfg.Optim.LegacyCarlikeFamilyGate = true
	p.addKinematicsEdges(0, 0, 5.0, 0, 0)
	test.That(t, countFamily(p.graph, graph.FamilyKinematicsCarlike), test.ShouldEqual, 0)
	p.graph.Clear()

	p.cfg.Optim.LegacyCarlikeFamilyGate = false
	p.addKinematicsEdges(0, 0, 5.0, 0, 0)
	test.That(t, countFamily(p.graph, graph.FamilyKinematicsCarlike) > 0, test.ShouldBeTrue)
}
