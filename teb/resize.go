package teb

import "github.com/elastictraj/teb/geom"

// UpdateAndPrune advances the front of the band by discarding poses that lie
// "behind" newStart (projected onto newStart's heading), then pins the first remaining pose to newStart and the last pose to
// newGoal, re-fixing both endpoints. This is the warm-start path, used by
// the planner whenever the new goal is close enough to the previous one
// that reinitializing from scratch would discard a useful warm start.
//
// It is idempotent: calling it twice in a row with the same (newStart,
// newGoal) leaves the band unchanged after the first call, since the second
// call finds nothing left "behind" the already-pinned first pose.
func (t *TimedElasticBand) UpdateAndPrune(newStart, newGoal geom.Pose, minSamples int) error {
	cut := 0
	for cut < len(t.Poses)-1 {
		// A pose is "behind" newStart if projecting (pose - newStart) onto
		// newStart's heading yields a negative value: the pose is still
		// behind where the robot has already progressed to.
		toPose := t.Poses[cut].Pose.Point.Sub(newStart.Point)
		proj := toPose.Dot(newStart.HeadingVector())
		if proj >= 0 {
			break
		}
		cut++
	}

	if cut > 0 {
		t.Poses = append([]PoseVertex{}, t.Poses[cut:]...)
		t.TimeDiffs = append([]TimeDiffVertex{}, t.TimeDiffs[cut:]...)
	}

	if len(t.Poses) < 2 {
		band, err := NewFromStartGoal(newStart, newGoal, minSamples)
		if err != nil {
			return err
		}
		*t = *band
		return nil
	}

	t.Poses[0].Pose = newStart
	t.Poses[0].Fixed = true
	last := len(t.Poses) - 1
	t.Poses[last].Pose = newGoal
	t.Poses[last].Fixed = true

	t.checkInvariant()
	return nil
}

// AutoResize keeps every interior TimeDiff near dtRef: while any Dt exceeds
// dtRef+dtHys, a new pose is inserted midway (averaging position and
// normalized angle) and the TimeDiff is split in two; while any Dt is below
// dtRef-dtHys and the band is above its minSamples floor, the two adjacent
// poses are merged by deleting the second and summing the adjacent Dts.
// Endpoints are never inserted before or removed. AutoResize is idempotent
// once the band is entirely within the hysteresis band.
func (t *TimedElasticBand) AutoResize(dtRef, dtHys float64, minSamples int) {
	hi := dtRef + dtHys
	lo := dtRef - dtHys

	for i := 0; i < len(t.TimeDiffs); i++ {
		if t.TimeDiffs[i].Dt <= hi {
			continue
		}
		mid := geom.Midpoint(t.Poses[i].Pose, t.Poses[i+1].Pose)
		newDt := t.TimeDiffs[i].Dt / 2

		newPoses := make([]PoseVertex, 0, len(t.Poses)+1)
		newPoses = append(newPoses, t.Poses[:i+1]...)
		newPoses = append(newPoses, PoseVertex{Pose: mid})
		newPoses = append(newPoses, t.Poses[i+1:]...)
		t.Poses = newPoses

		newDts := make([]TimeDiffVertex, 0, len(t.TimeDiffs)+1)
		newDts = append(newDts, t.TimeDiffs[:i]...)
		newDts = append(newDts, TimeDiffVertex{Dt: clampDt(newDt)}, TimeDiffVertex{Dt: clampDt(newDt)})
		newDts = append(newDts, t.TimeDiffs[i+1:]...)
		t.TimeDiffs = newDts
		// Re-examine the (now split) interval in case it is still too large.
		i--
	}

	for i := 0; i < len(t.TimeDiffs); i++ {
		if t.TimeDiffs[i].Dt >= lo {
			continue
		}
		if len(t.Poses) <= minSamples {
			break
		}
		// Never remove the fixed endpoints: merging pose i+1 into pose i is
		// disallowed if pose i+1 is the last pose.
		if i+1 >= len(t.Poses)-1 && t.Poses[i+1].Fixed {
			continue
		}

		mergedDt := t.TimeDiffs[i].Dt
		if i+1 < len(t.TimeDiffs) {
			mergedDt += t.TimeDiffs[i+1].Dt
		}

		newPoses := make([]PoseVertex, 0, len(t.Poses)-1)
		newPoses = append(newPoses, t.Poses[:i+1]...)
		newPoses = append(newPoses, t.Poses[i+2:]...)
		t.Poses = newPoses

		tailStart := i + 2
		if tailStart > len(t.TimeDiffs) {
			tailStart = len(t.TimeDiffs)
		}
		newDts := make([]TimeDiffVertex, 0, len(t.TimeDiffs)-1)
		newDts = append(newDts, t.TimeDiffs[:i]...)
		newDts = append(newDts, TimeDiffVertex{Dt: clampDt(mergedDt)})
		newDts = append(newDts, t.TimeDiffs[tailStart:]...)
		t.TimeDiffs = newDts
		i--
	}

	t.checkInvariant()
}
