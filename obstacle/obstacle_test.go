package obstacle

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestPointObstacleDistance(t *testing.T) {
	o := NewPointObstacle(r2.Point{X: 3, Y: 4}, SourceDirect)
	test.That(t, o.DistanceToPoint(r2.Point{}), test.ShouldAlmostEqual, 5.0, 1e-9)
}

func TestLineObstacleDistance(t *testing.T) {
	o := NewLineObstacle(r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}, SourceDirect)
	test.That(t, o.DistanceToPoint(r2.Point{X: 5, Y: 3}), test.ShouldAlmostEqual, 3.0, 1e-9)
	test.That(t, o.DistanceToPoint(r2.Point{X: -2, Y: 0}), test.ShouldAlmostEqual, 2.0, 1e-9)
}

func TestPolygonObstacleDistance(t *testing.T) {
	square := []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	o := NewPolygonObstacle(square, SourceDirect)
	test.That(t, o.DistanceToPoint(r2.Point{X: 1, Y: -3}), test.ShouldAlmostEqual, 3.0, 1e-9)
}

func TestDynamicCirclePredictedPosition(t *testing.T) {
	o := NewDynamicCircleObstacle(r2.Point{X: 0, Y: 0}, 1.0, r2.Point{X: 2, Y: 0}, SourceDirect)
	test.That(t, o.IsDynamic(), test.ShouldBeTrue)
	pos := o.PredictedPosition(3)
	test.That(t, pos.X, test.ShouldAlmostEqual, 6.0, 1e-9)
	test.That(t, pos.Y, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestDynamicCircleDistanceToPointAtTimeSubtractsRadius(t *testing.T) {
	o := NewDynamicCircleObstacle(r2.Point{X: 0, Y: 0}, 1.0, r2.Point{X: 1, Y: 0}, SourceDirect)
	// At t=5 the circle center is at (5,0); a point at (10,0) is 5 away, minus radius 1.
	d := o.DistanceToPointAtTime(r2.Point{X: 10, Y: 0}, 5)
	test.That(t, d, test.ShouldAlmostEqual, 4.0, 1e-9)
}

func TestStaticObstacleDistanceToPointAtTimeIgnoresTime(t *testing.T) {
	o := NewPointObstacle(r2.Point{X: 1, Y: 0}, SourceDirect)
	d0 := o.DistanceToPointAtTime(r2.Point{X: 4, Y: 0}, 0)
	d5 := o.DistanceToPointAtTime(r2.Point{X: 4, Y: 0}, 5)
	test.That(t, d0, test.ShouldAlmostEqual, d5, 1e-9)
}
