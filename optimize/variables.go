// Package optimize implements the Levenberg-Marquardt driver: it collects
// the graph's free variables into a single vector, assembles weighted
// residuals and a finite-difference Jacobian from the graph's active edges,
// and repeatedly solves the damped Gauss-Newton normal equations with
// gonum's Cholesky decomposition. The finite-difference gradient approach
// is the same one a single-frame IK solver's numerical gradient fallback
// uses, adapted here from a single-frame gradient to a whole-graph
// Jacobian.
package optimize

import (
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/graph"
)

// varRef addresses one scalar free variable: either one coordinate of a
// pose (x, y, or theta) or a time-diff's Dt.
type varRef struct {
	ref  graph.VertexRef
	comp int // 0=x,1=y,2=theta for poses; unused for time-diffs
}

// collectFreeVariables walks every band registered with g, in registration
// order, and returns a varRef for every free (non-fixed) pose coordinate and
// every time-diff, plus the current value vector x0.
func collectFreeVariables(g *graph.Graph) ([]varRef, []float64) {
	var vars []varRef
	var x0 []float64

	for _, owner := range g.BandOrder() {
		band := g.Band(owner)
		for i := 0; i < band.SizePoses(); i++ {
			ref := graph.VertexRef{Owner: owner, Kind: graph.KindPose, Index: i}
			if g.PoseFixed(ref) {
				continue
			}
			p := g.Pose(ref)
			vars = append(vars, varRef{ref: ref, comp: 0}, varRef{ref: ref, comp: 1}, varRef{ref: ref, comp: 2})
			x0 = append(x0, p.X(), p.Y(), p.Theta)
		}
		for i := 0; i < band.SizeTimeDiffs(); i++ {
			ref := graph.VertexRef{Owner: owner, Kind: graph.KindTimeDiff, Index: i}
			vars = append(vars, varRef{ref: ref})
			x0 = append(x0, g.Dt(ref))
		}
	}
	return vars, x0
}

// applyVariables writes a value vector back into the graph's vertices.
func applyVariables(g *graph.Graph, vars []varRef, x []float64) {
	// Poses can have up to three components written independently; gather
	// per-pose updates first so a partial write of one component doesn't
	// clobber another written in the same pass.
	poseUpdates := map[graph.VertexRef][3]float64{}
	poseTouched := map[graph.VertexRef][3]bool{}

	for i, v := range vars {
		if v.ref.Kind == graph.KindTimeDiff {
			g.SetDt(v.ref, x[i])
			continue
		}
		vals := poseUpdates[v.ref]
		touched := poseTouched[v.ref]
		vals[v.comp] = x[i]
		touched[v.comp] = true
		poseUpdates[v.ref] = vals
		poseTouched[v.ref] = touched
	}

	for ref, vals := range poseUpdates {
		cur := g.Pose(ref)
		touched := poseTouched[ref]
		x, y, theta := cur.X(), cur.Y(), cur.Theta
		if touched[0] {
			x = vals[0]
		}
		if touched[1] {
			y = vals[1]
		}
		if touched[2] {
			theta = vals[2]
		}
		g.SetPose(ref, geom.NewPose(x, y, theta))
	}
}
