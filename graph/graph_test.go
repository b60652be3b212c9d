package graph

import (
	"testing"

	"go.viam.com/test"

	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/teb"
)

func straightBand(t *testing.T) *teb.TimedElasticBand {
	band, err := teb.NewFromPlan(
		[]geom.Pose{geom.NewPose(0, 0, 0), geom.NewPose(10, 0, 0)},
		0.3, 0.1, 5, false,
	)
	test.That(t, err, test.ShouldBeNil)
	return band
}

func TestAddBandPreservesRegistrationOrder(t *testing.T) {
	g := New()
	g.AddBand("robot", straightBand(t))
	g.AddBand("human:1", straightBand(t))
	g.AddBand("human:2", straightBand(t))
	test.That(t, g.BandOrder(), test.ShouldResemble, []string{"robot", "human:1", "human:2"})
}

func TestAddBandTwiceUnderSameOwnerDoesNotDuplicateOrder(t *testing.T) {
	g := New()
	b1 := straightBand(t)
	b2 := straightBand(t)
	g.AddBand("robot", b1)
	g.AddBand("robot", b2)
	test.That(t, g.BandOrder(), test.ShouldResemble, []string{"robot"})
	test.That(t, g.Band("robot") == b2, test.ShouldBeTrue)
	test.That(t, g.Band("robot") == b1, test.ShouldBeFalse)
}

func TestClearDropsBandsAndEdgesWithoutTouchingVertices(t *testing.T) {
	g := New()
	band := straightBand(t)
	g.AddBand("robot", band)
	ref := VertexRef{Owner: "robot", Kind: KindPose, Index: 1}
	g.AddEdge(fakeEdge{})
	test.That(t, g.IsEmpty(), test.ShouldBeFalse)

	before := g.Pose(ref)
	g.Clear()
	test.That(t, g.IsEmpty(), test.ShouldBeTrue)
	test.That(t, len(g.Edges()), test.ShouldEqual, 0)
	// The band itself, owned externally, is untouched by Clear.
	test.That(t, band.PoseAt(1).Pose, test.ShouldResemble, before)
}

func TestAssertEmptyErrorsWhenNotEmpty(t *testing.T) {
	g := New()
	test.That(t, g.AssertEmpty(), test.ShouldBeNil)
	g.AddBand("robot", straightBand(t))
	test.That(t, g.AssertEmpty(), test.ShouldNotBeNil)
}

func TestSetPoseRespectsFixedFlag(t *testing.T) {
	g := New()
	band := straightBand(t)
	g.AddBand("robot", band)

	fixedRef := VertexRef{Owner: "robot", Kind: KindPose, Index: 0}
	before := g.Pose(fixedRef)
	g.SetPose(fixedRef, geom.NewPose(99, 99, 0))
	test.That(t, g.Pose(fixedRef), test.ShouldResemble, before)

	freeRef := VertexRef{Owner: "robot", Kind: KindPose, Index: 2}
	g.SetPose(freeRef, geom.NewPose(42, 1, 0.5))
	test.That(t, g.Pose(freeRef).X(), test.ShouldAlmostEqual, 42.0, 1e-9)
}

func TestSetDtClampsToMinimum(t *testing.T) {
	g := New()
	band := straightBand(t)
	g.AddBand("robot", band)
	ref := VertexRef{Owner: "robot", Kind: KindTimeDiff, Index: 0}
	g.SetDt(ref, -5)
	test.That(t, g.Dt(ref), test.ShouldAlmostEqual, teb.MinDt, 1e-12)
}

func TestFamilyStringNamesEveryBuiltinFamily(t *testing.T) {
	families := []Family{
		FamilyObstacle, FamilyDynamicObstacle, FamilyViaPoint,
		FamilyVelocity, FamilyVelocityHuman,
		FamilyAcceleration, FamilyAccelerationStart, FamilyAccelerationGoal,
		FamilyTimeOptimal, FamilyKinematicsDiffDrive, FamilyKinematicsCarlike,
		FamilyHumanRobotSafety, FamilyHumanHumanSafety,
		FamilyHumanRobotTTC, FamilyHumanRobotDirectional,
	}
	seen := map[string]bool{}
	for _, f := range families {
		name := f.String()
		test.That(t, name, test.ShouldNotEqual, "unknown")
		test.That(t, seen[name], test.ShouldBeFalse)
		seen[name] = true
	}
}

type fakeEdge struct{}

func (fakeEdge) Touches() []VertexRef         { return nil }
func (fakeEdge) Family() Family               { return FamilyObstacle }
func (fakeEdge) Residual(*Graph) []float64    { return []float64{0} }
func (fakeEdge) Weight() []float64            { return []float64{1} }
