package geom

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestNormalizeTheta(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		got := NormalizeTheta(c.in)
		test.That(t, got, test.ShouldAlmostEqual, c.want, 1e-9)
		test.That(t, got > -math.Pi, test.ShouldBeTrue)
		test.That(t, got <= math.Pi+1e-9, test.ShouldBeTrue)
	}
}

func TestAngleDiffShortestPath(t *testing.T) {
	d := AngleDiff(math.Pi-0.1, -math.Pi+0.1)
	test.That(t, d, test.ShouldAlmostEqual, 0.2, 1e-9)
}

func TestHeadingVectorUnitLength(t *testing.T) {
	p := NewPose(1, 2, 0.7)
	v := p.HeadingVector()
	test.That(t, math.Hypot(v.X, v.Y), test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestMidpointAveragesPositionAndHeading(t *testing.T) {
	a := NewPose(0, 0, 0)
	b := NewPose(2, 0, math.Pi/2)
	mid := Midpoint(a, b)
	test.That(t, mid.X(), test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, mid.Y(), test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, mid.Theta, test.ShouldAlmostEqual, math.Pi/4, 1e-9)
}

func TestHeadingToPointsAtTarget(t *testing.T) {
	h := HeadingTo(NewPose(0, 0, 0).Point, NewPose(1, 1, 0).Point)
	test.That(t, h, test.ShouldAlmostEqual, math.Pi/4, 1e-9)
}

func TestDistanceTo(t *testing.T) {
	a := NewPose(0, 0, 0)
	b := NewPose(3, 4, 0)
	test.That(t, a.DistanceTo(b), test.ShouldAlmostEqual, 5.0, 1e-9)
}
