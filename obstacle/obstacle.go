// Package obstacle holds the read-only external inputs to a planning cycle:
// the polymorphic Obstacle collection and the ViaPoint attractors.
// Obstacles are a tagged variant (a Kind enum read by the edges package)
// rather than a class hierarchy with runtime type identification, the same
// way geometry variants elsewhere get distinguished by an explicit type tag
// instead of downcasting.
package obstacle

import (
	"math"

	"github.com/golang/geo/r2"
)

// Kind tags the geometric variant of an Obstacle.
type Kind int

const (
	// KindPoint is a single static point obstacle.
	KindPoint Kind = iota
	// KindLine is a static line-segment obstacle.
	KindLine
	// KindPolygon is a static convex polygon obstacle.
	KindPolygon
	// KindDynamicCircle is a moving circular obstacle with constant velocity.
	KindDynamicCircle
)

// Source distinguishes obstacles supplied directly from those derived from a
// cost-map layer; the Obstacle edge applies a different weight scale to
// each.
type Source int

const (
	// SourceDirect is an obstacle handed in directly by the caller.
	SourceDirect Source = iota
	// SourceCostmap is an obstacle synthesized from a cost-map layer.
	SourceCostmap
)

// Obstacle is a polymorphic static or dynamic obstacle. Exactly one of the
// geometry fields is meaningful, selected by Kind.
type Obstacle struct {
	Kind   Kind
	Source Source

	// KindPoint
	Point r2.Point

	// KindLine
	LineStart, LineEnd r2.Point

	// KindPolygon, convex, in order.
	Polygon []r2.Point

	// KindDynamicCircle
	Center   r2.Point
	Radius   float64
	Velocity r2.Point
}

// NewPointObstacle constructs a static point obstacle.
func NewPointObstacle(p r2.Point, source Source) Obstacle {
	return Obstacle{Kind: KindPoint, Source: source, Point: p}
}

// NewLineObstacle constructs a static line-segment obstacle.
func NewLineObstacle(a, b r2.Point, source Source) Obstacle {
	return Obstacle{Kind: KindLine, Source: source, LineStart: a, LineEnd: b}
}

// NewPolygonObstacle constructs a static convex polygon obstacle.
func NewPolygonObstacle(pts []r2.Point, source Source) Obstacle {
	return Obstacle{Kind: KindPolygon, Source: source, Polygon: pts}
}

// NewDynamicCircleObstacle constructs a moving circular obstacle.
func NewDynamicCircleObstacle(center r2.Point, radius float64, velocity r2.Point, source Source) Obstacle {
	return Obstacle{Kind: KindDynamicCircle, Source: source, Center: center, Radius: radius, Velocity: velocity}
}

// IsDynamic reports whether the obstacle moves with a constant velocity.
func (o Obstacle) IsDynamic() bool {
	return o.Kind == KindDynamicCircle
}

// PredictedPosition returns the obstacle's position at time dt in the
// future, assuming constant velocity. Static obstacles return their fixed
// position/centroid.
func (o Obstacle) PredictedPosition(dt float64) r2.Point {
	switch o.Kind {
	case KindDynamicCircle:
		return o.Center.Add(o.Velocity.Mul(dt))
	case KindPoint:
		return o.Point
	default:
		return o.centroid()
	}
}

// DistanceToPoint returns the Euclidean distance from the obstacle's current
// geometry to pt, used by the Obstacle edge and by attachment-index
// selection.
func (o Obstacle) DistanceToPoint(pt r2.Point) float64 {
	switch o.Kind {
	case KindPoint:
		return pt.Sub(o.Point).Norm()
	case KindLine:
		return distancePointToSegment(pt, o.LineStart, o.LineEnd)
	case KindPolygon:
		return distancePointToPolygon(pt, o.Polygon)
	case KindDynamicCircle:
		return math.Max(0, pt.Sub(o.Center).Norm()-o.Radius)
	default:
		return math.Inf(1)
	}
}

// DistanceToPointAtTime returns the distance from the obstacle's predicted
// position at time dt to pt; used by the DynamicObstacle edge.
func (o Obstacle) DistanceToPointAtTime(pt r2.Point, dt float64) float64 {
	if !o.IsDynamic() {
		return o.DistanceToPoint(pt)
	}
	predicted := o.PredictedPosition(dt)
	return math.Max(0, pt.Sub(predicted).Norm()-o.Radius)
}

func (o Obstacle) centroid() r2.Point {
	switch o.Kind {
	case KindLine:
		return o.LineStart.Add(o.LineEnd).Mul(0.5)
	case KindPolygon:
		var sum r2.Point
		for _, p := range o.Polygon {
			sum = sum.Add(p)
		}
		if len(o.Polygon) == 0 {
			return sum
		}
		return sum.Mul(1.0 / float64(len(o.Polygon)))
	default:
		return o.Point
	}
}

func distancePointToSegment(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return p.Sub(a).Norm()
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Mul(t))
	return p.Sub(closest).Norm()
}

func distancePointToPolygon(p r2.Point, poly []r2.Point) float64 {
	if len(poly) == 0 {
		return math.Inf(1)
	}
	if len(poly) == 1 {
		return p.Sub(poly[0]).Norm()
	}
	min := math.Inf(1)
	for i := range poly {
		j := (i + 1) % len(poly)
		d := distancePointToSegment(p, poly[i], poly[j])
		if d < min {
			min = d
		}
	}
	return min
}

// ViaPoint is a 2D attractor point the trajectory is softly biased to pass
// near.
type ViaPoint struct {
	Point r2.Point
}

// NewViaPoint constructs a ViaPoint.
func NewViaPoint(p r2.Point) ViaPoint {
	return ViaPoint{Point: p}
}
