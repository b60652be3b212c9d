package planner

// optimize runs the outer optimization loop: for up to outerIters
// iterations, auto-resize (if enabled), build the graph, run the inner LM
// solve for up to innerIters iterations, optionally classify cost on the
// final iteration, then clear. Every build is paired with a clear,
// including on error paths.
func (p *Planner) optimize(outerIters, innerIters int, computeCost bool) (bool, error) {
	if p.cfg.Robot.MaxVelX < 0.01 {
		p.logger.Infow("robot disabled: max_vel_x below operability floor", "max_vel_x", p.cfg.Robot.MaxVelX)
		return false, nil
	}
	if !p.cfg.Optim.OptimizationActivate {
		p.logger.Infow("optimization not activated")
		return false, nil
	}
	if p.robotTeb == nil || p.robotTeb.SizePoses() < p.cfg.Trajectory.MinSamples {
		p.logger.Infow("robot teb uninitialized or shorter than min_samples")
		return false, nil
	}

	p.optimizer.SetMaxIterations(innerIters)

	for outer := 0; outer < outerIters; outer++ {
		if p.cfg.Trajectory.TebAutosize {
			p.robotTeb.AutoResize(p.cfg.Trajectory.DtRef, p.cfg.Trajectory.DtHysteresis, p.cfg.Trajectory.MinSamples)
			for _, h := range p.humans {
				h.Teb.AutoResize(p.cfg.Trajectory.DtRef, p.cfg.Trajectory.DtHysteresis, p.cfg.Trajectory.HumanMinSamples)
			}
		}

		if err := p.graph.AssertEmpty(); err != nil {
			return false, err
		}

		weightScale := p.rampScale()
		if err := p.buildGraph(weightScale); err != nil {
			p.graph.Clear()
			return false, err
		}

		result, err := p.optimizer.Solve(p.graph)
		if err != nil {
			p.graph.Clear()
			p.logger.Infow("inner solve failed to complete any iterations", "error", err.Error())
			return false, nil
		}

		if outer == outerIters-1 && computeCost {
			p.lastCostBreakdown = result.CostBreakdown
			p.lastCost = result.FinalCost
		}

		p.graph.Clear()
		p.itersSinceReinit++
	}

	return true, nil
}

// rampScale implements the per-edge weight ramp: edge weights scale
// linearly from a small fraction up to 1.0 over the first
// WeightRampIterations outer iterations following a full re-initialization,
// avoiding an overshoot from a poor initial guess.
func (p *Planner) rampScale() float64 {
	n := p.cfg.Optim.WeightRampIterations
	if n <= 0 {
		return 1.0
	}
	if p.itersSinceReinit >= n {
		return 1.0
	}
	return float64(p.itersSinceReinit+1) / float64(n)
}
