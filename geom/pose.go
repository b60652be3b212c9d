// Package geom provides the planar SE2 primitives the optimizer core operates
// on: positions, headings, and the small amount of vector algebra the edge
// residuals need. It plays the same role a rigid-body pose package plays for
// SE3 poses, narrowed to the plane.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Pose is a planar SE2 state: a position and a heading. Headings are always
// kept normalized to (-pi, pi].
type Pose struct {
	Point r2.Point
	Theta float64
}

// NewPose constructs a Pose, normalizing theta.
func NewPose(x, y, theta float64) Pose {
	return Pose{Point: r2.Point{X: x, Y: y}, Theta: NormalizeTheta(theta)}
}

// X returns the x coordinate.
func (p Pose) X() float64 { return p.Point.X }

// Y returns the y coordinate.
func (p Pose) Y() float64 { return p.Point.Y }

// HeadingVector returns the unit vector pointing along Theta.
func (p Pose) HeadingVector() r2.Point {
	return r2.Point{X: math.Cos(p.Theta), Y: math.Sin(p.Theta)}
}

// DistanceTo returns the Euclidean distance between two poses' positions.
func (p Pose) DistanceTo(other Pose) float64 {
	return p.Point.Sub(other.Point).Norm()
}

// DistanceToPoint returns the Euclidean distance to a bare point.
func (p Pose) DistanceToPoint(pt r2.Point) float64 {
	return p.Point.Sub(pt).Norm()
}

// NormalizeTheta wraps an angle into (-pi, pi].
func NormalizeTheta(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	return theta
}

// AngleDiff returns the signed shortest angular distance from `from` to `to`,
// normalized to (-pi, pi].
func AngleDiff(from, to float64) float64 {
	return NormalizeTheta(to - from)
}

// Lerp linearly interpolates between two poses, averaging position directly
// and heading via the shortest angular path, matching the midpoint-insertion
// rule a band's auto-resize uses and the pose interpolation a feasibility
// check uses.
func Lerp(a, b Pose, t float64) Pose {
	pos := a.Point.Add(b.Point.Sub(a.Point).Mul(t))
	theta := NormalizeTheta(a.Theta + t*AngleDiff(a.Theta, b.Theta))
	return Pose{Point: pos, Theta: theta}
}

// Midpoint is Lerp at t=0.5, the exact operation a band's auto-resize
// performs when splitting a TimeDiff that has grown too large.
func Midpoint(a, b Pose) Pose {
	return Lerp(a, b, 0.5)
}

// HeadingTo returns the heading of the vector from p to other; used when a
// band's initial construction from a plan derives interior orientations
// from the direction of travel.
func HeadingTo(p, other r2.Point) float64 {
	d := other.Sub(p)
	return NormalizeTheta(math.Atan2(d.Y, d.X))
}
