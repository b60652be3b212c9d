package edges

import "github.com/elastictraj/teb/graph"

// TimeOptimal penalizes a single TimeDiff directly, biasing the solver
// towards minimizing total trajectory time.
type TimeOptimal struct {
	Dt     graph.VertexRef
	weight float64
}

// NewTimeOptimal constructs a TimeOptimal edge over a single TimeDiff vertex.
func NewTimeOptimal(dt graph.VertexRef, weight float64) *TimeOptimal {
	return &TimeOptimal{Dt: dt, weight: weight}
}

func (e *TimeOptimal) Touches() []graph.VertexRef { return []graph.VertexRef{e.Dt} }
func (e *TimeOptimal) Family() graph.Family        { return graph.FamilyTimeOptimal }
func (e *TimeOptimal) Weight() []float64           { return []float64{e.weight} }

func (e *TimeOptimal) Residual(g *graph.Graph) []float64 {
	return []float64{g.Dt(e.Dt)}
}
