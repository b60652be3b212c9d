package edges

import "github.com/elastictraj/teb/graph"

// HumanRobotSafety penalizes proximity between the robot's pose and a
// human's pose at the same TEB index, using an inflated combined radius.
// The approach planning mode reuses this exact edge type with the approach
// target's single pose substituted for the human pose: approach mode is a
// configuration of which band "Human" resolves to, not a new edge class.
type HumanRobotSafety struct {
	Robot, Human  graph.VertexRef
	InflatedRadius float64
	weight         float64
}

// NewHumanRobotSafety constructs a HumanRobotSafety edge.
func NewHumanRobotSafety(robot, human graph.VertexRef, inflatedRadius, weight float64) *HumanRobotSafety {
	return &HumanRobotSafety{Robot: robot, Human: human, InflatedRadius: inflatedRadius, weight: weight}
}

func (e *HumanRobotSafety) Touches() []graph.VertexRef { return []graph.VertexRef{e.Robot, e.Human} }
func (e *HumanRobotSafety) Family() graph.Family        { return graph.FamilyHumanRobotSafety }
func (e *HumanRobotSafety) Weight() []float64           { return []float64{e.weight} }

func (e *HumanRobotSafety) Residual(g *graph.Graph) []float64 {
	dist := g.Pose(e.Robot).DistanceTo(g.Pose(e.Human))
	return []float64{LowerBoundPenalty(dist, e.InflatedRadius)}
}

// HumanHumanSafety is the symmetric proximity penalty between two tracked
// humans' poses at the same TEB index.
type HumanHumanSafety struct {
	Human1, Human2 graph.VertexRef
	InflatedRadius float64
	weight         float64
}

// NewHumanHumanSafety constructs a HumanHumanSafety edge.
func NewHumanHumanSafety(h1, h2 graph.VertexRef, inflatedRadius, weight float64) *HumanHumanSafety {
	return &HumanHumanSafety{Human1: h1, Human2: h2, InflatedRadius: inflatedRadius, weight: weight}
}

func (e *HumanHumanSafety) Touches() []graph.VertexRef {
	return []graph.VertexRef{e.Human1, e.Human2}
}
func (e *HumanHumanSafety) Family() graph.Family { return graph.FamilyHumanHumanSafety }
func (e *HumanHumanSafety) Weight() []float64    { return []float64{e.weight} }

func (e *HumanHumanSafety) Residual(g *graph.Graph) []float64 {
	dist := g.Pose(e.Human1).DistanceTo(g.Pose(e.Human2))
	return []float64{LowerBoundPenalty(dist, e.InflatedRadius)}
}
