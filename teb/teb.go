package teb

import (
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/teberrors"
)

// TimedElasticBand maintains two parallel ordered sequences with the
// cardinality invariant |TimeDiffs| = |Poses| - 1. There is one band per
// tracked entity (the robot, or one per human id). On a warm start it is
// mutated in place via UpdateAndPrune/AutoResize, so its state carries over
// between cycles; a re-initialization replaces it with a new band.
type TimedElasticBand struct {
	Poses     []PoseVertex
	TimeDiffs []TimeDiffVertex
}

// SizePoses returns the number of pose vertices.
func (t *TimedElasticBand) SizePoses() int { return len(t.Poses) }

// SizeTimeDiffs returns the number of time-diff vertices.
func (t *TimedElasticBand) SizeTimeDiffs() int { return len(t.TimeDiffs) }

// PoseAt returns the pose vertex at index i.
func (t *TimedElasticBand) PoseAt(i int) *PoseVertex { return &t.Poses[i] }

// DtAt returns the time-diff vertex at index i (between pose i and i+1).
func (t *TimedElasticBand) DtAt(i int) *TimeDiffVertex { return &t.TimeDiffs[i] }

// PoseValues returns the plain pose values of every pose vertex, in order,
// for callers (trajectory extraction, feasibility checking) that only need
// the geometry and not the Fixed flag.
func (t *TimedElasticBand) PoseValues() []geom.Pose {
	out := make([]geom.Pose, len(t.Poses))
	for i, v := range t.Poses {
		out[i] = v.Pose
	}
	return out
}

// DtValues returns the plain Δt values of every time-diff vertex, in order.
func (t *TimedElasticBand) DtValues() []float64 {
	out := make([]float64, len(t.TimeDiffs))
	for i, v := range t.TimeDiffs {
		out[i] = v.Dt
	}
	return out
}

// Front returns the first pose.
func (t *TimedElasticBand) Front() geom.Pose { return t.Poses[0].Pose }

// Back returns the last pose.
func (t *TimedElasticBand) Back() geom.Pose { return t.Poses[len(t.Poses)-1].Pose }

// checkInvariant verifies the cardinality invariant; it is called
// defensively at the end of every mutating operation.
func (t *TimedElasticBand) checkInvariant() {
	if len(t.TimeDiffs) != len(t.Poses)-1 {
		panic("teb: cardinality invariant violated: |TimeDiffs| != |Poses|-1")
	}
}

// NewFromPlan builds a TimedElasticBand by selecting waypoints from a
// sampled path, skipping points closer than skipDist to the previously kept
// one, interpolating extra samples if fewer than minSamples survive, and
// fixing the two endpoints.
//
// If estimateOrient is true, the heading of each interior pose is overridden
// by the direction from that pose to the next one, the way an initial plan
// with unreliable headings is re-oriented along the direction of travel.
func NewFromPlan(plan []geom.Pose, dtRef, skipDist float64, minSamples int, estimateOrient bool) (*TimedElasticBand, error) {
	if len(plan) < 2 {
		return nil, teberrors.ErrInvalidInput
	}

	kept := []geom.Pose{plan[0]}
	for i := 1; i < len(plan)-1; i++ {
		if kept[len(kept)-1].DistanceTo(plan[i]) >= skipDist {
			kept = append(kept, plan[i])
		}
	}
	kept = append(kept, plan[len(plan)-1])

	if len(kept) < minSamples {
		kept = densify(kept, minSamples)
	}

	if estimateOrient {
		for i := 1; i < len(kept)-1; i++ {
			kept[i].Theta = geom.HeadingTo(kept[i].Point, kept[i+1].Point)
		}
	}

	band := &TimedElasticBand{
		Poses:     make([]PoseVertex, len(kept)),
		TimeDiffs: make([]TimeDiffVertex, len(kept)-1),
	}
	for i, p := range kept {
		band.Poses[i] = PoseVertex{Pose: p}
	}
	band.Poses[0].Fixed = true
	band.Poses[len(band.Poses)-1].Fixed = true
	for i := range band.TimeDiffs {
		band.TimeDiffs[i] = TimeDiffVertex{Dt: clampDt(dtRef)}
	}

	band.checkInvariant()
	return band, nil
}

// NewFromStartGoal builds a TimedElasticBand from a bare (start, goal) pair,
// evenly inserting minSamples-2 interior poses and seeding every TimeDiff at
// 1 second (AutoResize will correct it on the first resize).
func NewFromStartGoal(start, goal geom.Pose, minSamples int) (*TimedElasticBand, error) {
	if minSamples < 2 {
		minSamples = 2
	}
	kept := densify([]geom.Pose{start, goal}, minSamples)

	band := &TimedElasticBand{
		Poses:     make([]PoseVertex, len(kept)),
		TimeDiffs: make([]TimeDiffVertex, len(kept)-1),
	}
	for i, p := range kept {
		band.Poses[i] = PoseVertex{Pose: p}
	}
	band.Poses[0].Fixed = true
	band.Poses[len(band.Poses)-1].Fixed = true
	for i := range band.TimeDiffs {
		band.TimeDiffs[i] = TimeDiffVertex{Dt: 1.0}
	}

	band.checkInvariant()
	return band, nil
}

// densify returns exactly `n` poses when `pts` has fewer than `n` (and at
// least two): two input poses are evenly interpolated; a longer polyline is
// resampled evenly by arc length, so its interior input poses are not kept.
// The two endpoints are preserved exactly.
func densify(pts []geom.Pose, n int) []geom.Pose {
	if len(pts) >= n || len(pts) < 2 {
		return pts
	}
	if len(pts) == 2 {
		out := make([]geom.Pose, n)
		for i := 0; i < n; i++ {
			t := float64(i) / float64(n-1)
			out[i] = geom.Lerp(pts[0], pts[1], t)
		}
		out[0] = pts[0]
		out[n-1] = pts[1]
		return out
	}
	// Resample a polyline of more than two points to exactly n samples,
	// distributing arc length evenly while preserving the two endpoints.
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + pts[i-1].DistanceTo(pts[i])
	}
	total := cum[len(cum)-1]
	out := make([]geom.Pose, n)
	out[0] = pts[0]
	out[n-1] = pts[len(pts)-1]
	seg := 0
	for i := 1; i < n-1; i++ {
		target := total * float64(i) / float64(n-1)
		for seg < len(cum)-2 && cum[seg+1] < target {
			seg++
		}
		segLen := cum[seg+1] - cum[seg]
		t := 0.0
		if segLen > 0 {
			t = (target - cum[seg]) / segLen
		}
		out[i] = geom.Lerp(pts[seg], pts[seg+1], t)
	}
	return out
}
