package edges

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/graph"
	"github.com/elastictraj/teb/obstacle"
	"github.com/elastictraj/teb/teb"
)

func graphWithBand(t *testing.T, poses []geom.Pose, dts []float64) (*graph.Graph, string) {
	band := &teb.TimedElasticBand{Poses: make([]teb.PoseVertex, len(poses))}
	for i, p := range poses {
		band.Poses[i] = teb.PoseVertex{Pose: p}
	}
	band.TimeDiffs = make([]teb.TimeDiffVertex, len(dts))
	for i, dt := range dts {
		band.TimeDiffs[i] = teb.TimeDiffVertex{Dt: dt}
	}
	g := graph.New()
	g.AddBand("robot", band)
	return g, "robot"
}

func TestPenaltyHelpers(t *testing.T) {
	test.That(t, UpperBoundPenalty(5, 3), test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, UpperBoundPenalty(1, 3), test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, LowerBoundPenalty(1, 3), test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, LowerBoundPenalty(5, 3), test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestObstacleEdgePenalizesPenetration(t *testing.T) {
	g, owner := graphWithBand(t, []geom.Pose{geom.NewPose(0, 0, 0)}, nil)
	ref := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 0}
	o := obstacle.NewPointObstacle(geom.NewPose(0.2, 0, 0).Point, obstacle.SourceDirect)
	e := NewObstacle(ref, o, 0.5, 1.0)
	res := e.Residual(g)
	test.That(t, len(res), test.ShouldEqual, 1)
	test.That(t, res[0], test.ShouldAlmostEqual, 0.3, 1e-9) // 0.5 - 0.2
}

func TestObstacleEdgeScalesDownCostmapSourceWeight(t *testing.T) {
	ref := graph.VertexRef{Owner: "robot", Kind: graph.KindPose, Index: 0}
	direct := NewObstacle(ref, obstacle.NewPointObstacle(geom.Pose{}.Point, obstacle.SourceDirect), 0.5, 1.0)
	costmap := NewObstacle(ref, obstacle.NewPointObstacle(geom.Pose{}.Point, obstacle.SourceCostmap), 0.5, 1.0)
	test.That(t, costmap.Weight()[0], test.ShouldAlmostEqual, direct.Weight()[0]*0.5, 1e-9)
}

func TestVelocityEdgePenalizesOverLimit(t *testing.T) {
	g, owner := graphWithBand(t,
		[]geom.Pose{geom.NewPose(0, 0, 0), geom.NewPose(1, 0, 0)},
		[]float64{0.5},
	)
	p0 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 0}
	p1 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 1}
	dt := graph.VertexRef{Owner: owner, Kind: graph.KindTimeDiff, Index: 0}
	e := NewVelocity(p0, p1, dt, 1.0, 1.0, 1.0)
	res := e.Residual(g)
	// v = 1/0.5 = 2, over max 1.0 by 1.0; w = 0.
	test.That(t, res[0], test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, res[1], test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestKinematicsDiffDrivePenalizesLateralMotion(t *testing.T) {
	g, owner := graphWithBand(t,
		[]geom.Pose{geom.NewPose(0, 0, 0), geom.NewPose(0, 1, 0)},
		nil,
	)
	p0 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 0}
	p1 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 1}
	e := NewKinematicsDiffDrive(p0, p1, false, 1.0, 1.0)
	res := e.Residual(g)
	// Pure lateral (y) motion with heading 0 both ends: nonholonomy residual
	// is nonzero, forward residual is zero since forward displacement is 0.
	test.That(t, res[0], test.ShouldNotEqual, 0.0)
	test.That(t, res[1], test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestKinematicsDiffDriveAllowsInPlaceRotation(t *testing.T) {
	g, owner := graphWithBand(t,
		[]geom.Pose{geom.NewPose(0, 0, 0), geom.NewPose(0, 0, math.Pi/2)},
		nil,
	)
	p0 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 0}
	p1 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 1}
	e := NewKinematicsDiffDrive(p0, p1, true, 1.0, 1.0)
	res := e.Residual(g)
	test.That(t, res[0], test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestShouldAddCarlikeKinematicsRequiresBothNonzero(t *testing.T) {
	test.That(t, ShouldAddCarlikeKinematics(0, 1), test.ShouldBeFalse)
	test.That(t, ShouldAddCarlikeKinematics(1, 0), test.ShouldBeFalse)
	test.That(t, ShouldAddCarlikeKinematics(0, 0), test.ShouldBeFalse)
	test.That(t, ShouldAddCarlikeKinematics(1, 1), test.ShouldBeTrue)
}

func TestHumanRobotSafetyPenalizesProximity(t *testing.T) {
	g, owner := graphWithBand(t, []geom.Pose{geom.NewPose(0, 0, 0)}, nil)
	robotRef := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 0}

	humanBand := &teb.TimedElasticBand{Poses: []teb.PoseVertex{{Pose: geom.NewPose(0.3, 0, 0)}}}
	g.AddBand("human:1", humanBand)
	humanRef := graph.VertexRef{Owner: "human:1", Kind: graph.KindPose, Index: 0}

	e := NewHumanRobotSafety(robotRef, humanRef, 0.5, 2.0)
	res := e.Residual(g)
	test.That(t, res[0], test.ShouldAlmostEqual, 0.2, 1e-9) // 0.5 - 0.3
}

func TestHumanRobotTTCIsZeroWhenNotClosing(t *testing.T) {
	g, owner := graphWithBand(t,
		[]geom.Pose{geom.NewPose(0, 0, 0), geom.NewPose(-1, 0, 0)},
		[]float64{1.0},
	)
	robotP0 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 0}
	robotP1 := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 1}
	robotDt := graph.VertexRef{Owner: owner, Kind: graph.KindTimeDiff, Index: 0}

	humanBand := &teb.TimedElasticBand{
		Poses:     []teb.PoseVertex{{Pose: geom.NewPose(10, 0, 0)}, {Pose: geom.NewPose(20, 0, 0)}},
		TimeDiffs: []teb.TimeDiffVertex{{Dt: 1.0}},
	}
	g.AddBand("human:1", humanBand)
	humanP0 := graph.VertexRef{Owner: "human:1", Kind: graph.KindPose, Index: 0}
	humanP1 := graph.VertexRef{Owner: "human:1", Kind: graph.KindPose, Index: 1}
	humanDt := graph.VertexRef{Owner: "human:1", Kind: graph.KindTimeDiff, Index: 0}

	// Robot moves from the origin to (-1,0), away from the human; human moves
	// further away along +x. Relative motion is separating, so TTC is infinite and
	// the residual is the zero no-op.
	e := NewHumanRobotTTC(robotP0, robotP1, robotDt, humanP0, humanP1, humanDt, 2.0, 1.0)
	res := e.Residual(g)
	test.That(t, res[0], test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestTimeOptimalResidualIsTheRawDt(t *testing.T) {
	g, owner := graphWithBand(t,
		[]geom.Pose{geom.NewPose(0, 0, 0), geom.NewPose(1, 0, 0)},
		[]float64{0.7},
	)
	dt := graph.VertexRef{Owner: owner, Kind: graph.KindTimeDiff, Index: 0}
	e := NewTimeOptimal(dt, 1.0)
	test.That(t, e.Residual(g)[0], test.ShouldAlmostEqual, 0.7, 1e-9)
}

func TestViaPointResidualIsDistanceToPoint(t *testing.T) {
	g, owner := graphWithBand(t, []geom.Pose{geom.NewPose(0, 0, 0)}, nil)
	ref := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: 0}
	vp := obstacle.NewViaPoint(geom.NewPose(3, 4, 0).Point)
	e := NewViaPoint(ref, vp, 1.0)
	test.That(t, e.Residual(g)[0], test.ShouldAlmostEqual, 5.0, 1e-9)
}
