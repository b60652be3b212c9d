package planner

import (
	"github.com/elastictraj/teb/edges"
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/obstacle"
	"github.com/elastictraj/teb/planconfig"
	"github.com/elastictraj/teb/teb"
	"github.com/elastictraj/teb/teberrors"
)

// HumanInput is one tracked human's contribution to a planning cycle: its
// sampled plan, optional start velocity, and its via points. Goal velocity
// is never accepted for a human; it is intentionally disabled for humans.
type HumanInput struct {
	Plan      []geom.Pose
	StartVel  *edges.Velocity2D
	ViaPoints []obstacle.ViaPoint
}

// PlanInput is one planning cycle's external input.
type PlanInput struct {
	InitialPlan []geom.Pose
	StartVel    *edges.Velocity2D
	FreeGoalVel bool
	GoalVel     *edges.Velocity2D
	Obstacles   []obstacle.Obstacle
	ViaPoints   []obstacle.ViaPoint
	Humans      map[uint64]HumanInput
}

// Plan runs one full planning cycle: prepare trajectories, then optimize.
// It returns false (with a nil error) for a recoverable failure. When
// optimization is disabled by config (not activated, or max_vel_x below the
// operability floor) it returns before any preparation, leaving the robot
// TEB unchanged. When the solver completes zero iterations, no step of that
// solve is applied, but the TEB keeps this cycle's preparation
// (re-initialization or pruning, resizing, and steps accepted in earlier
// outer iterations); it is not rolled back. A non-nil error
// indicates a programming-error-class failure (GraphNotEmpty) or invalid
// input (an initial plan shorter than two poses).
func (p *Planner) Plan(in PlanInput) (bool, error) {
	p.lastCycleID = newCycleID()
	logger := p.logger.Sublogger(p.lastCycleID)

	if len(in.InitialPlan) < 2 {
		return false, teberrors.ErrInvalidInput
	}
	if p.cfg.Robot.MaxVelX < 0.01 || !p.cfg.Optim.OptimizationActivate {
		logger.Infow("optimization disabled by configuration", "max_vel_x", p.cfg.Robot.MaxVelX,
			"optimization_activate", p.cfg.Optim.OptimizationActivate)
		return false, nil
	}

	if err := p.prepareRobotTEB(in.InitialPlan); err != nil {
		return false, err
	}
	p.applyRobotVelocityBoundaries(in.StartVel, in.FreeGoalVel, in.GoalVel)

	switch p.cfg.PlanningMode {
	case planconfig.ModeRobotOnly:
		p.humans = map[uint64]*HumanState{}
	case planconfig.ModeCoPlanned:
		if err := p.prepareHumans(in.Humans); err != nil {
			return false, err
		}
	case planconfig.ModeApproachHuman:
		p.humans = map[uint64]*HumanState{}
		p.prepareApproachTarget(in.Humans)
	}

	p.obstacles = in.Obstacles
	p.viaPoints = in.ViaPoints
	for id, h := range in.Humans {
		p.humanViaPoints[id] = h.ViaPoints
	}

	logger.Debugw("optimization preparation complete", "cycle", p.lastCycleID)
	// The "human preparation" line below carries the same fields as
	// "optimization preparation" above (only the cycle id, no timing value of
	// either step) -- a likely copy/paste duplication kept here rather than
	// silently fixed.
	logger.Debugw("human preparation complete", "cycle", p.lastCycleID)

	ok, err := p.optimize(p.cfg.Optim.NoOuterIterations, p.cfg.Optim.NoInnerIterations, p.cfg.Optim.OptimizationVerbose)
	return ok, err
}

// prepareRobotTEB reinitializes from the plan if the robot TEB is
// uninitialized or warm start is disabled; otherwise it calls
// UpdateAndPrune if the new goal is close to the current back pose, else it
// reinitializes.
func (p *Planner) prepareRobotTEB(plan []geom.Pose) error {
	newGoal := plan[len(plan)-1]

	reinit := p.robotTeb == nil || p.cfg.Optim.DisableWarmStart
	if !reinit {
		dist := p.robotTeb.Back().DistanceTo(newGoal)
		reinit = dist >= p.cfg.Trajectory.ForceReinitNewGoalDist
	}

	if reinit {
		band, err := teb.NewFromPlan(plan, p.cfg.Trajectory.DtRef, p.cfg.Trajectory.TebInitSkipDist, p.cfg.Trajectory.MinSamples, true)
		if err != nil {
			return err
		}
		p.robotTeb = band
		p.itersSinceReinit = 0
		return nil
	}

	return p.robotTeb.UpdateAndPrune(plan[0], newGoal, p.cfg.Trajectory.MinSamples)
}

// applyRobotVelocityBoundaries applies the robot's velocity boundary
// conditions: a supplied start velocity is recorded as-is; the goal
// velocity is either left free (unconstrained) or pinned to zero, per
// free_goal_vel.
func (p *Planner) applyRobotVelocityBoundaries(startVel *edges.Velocity2D, freeGoalVel bool, goalVel *edges.Velocity2D) {
	if startVel != nil {
		p.robotStartVel = *startVel
		p.robotHasStartVel = true
	} else {
		p.robotHasStartVel = false
	}

	if freeGoalVel {
		p.robotHasGoalVel = false
		return
	}
	p.robotHasGoalVel = true
	if goalVel != nil {
		p.robotGoalVel = *goalVel
	} else {
		p.robotGoalVel = edges.Velocity2D{}
	}
}

// prepareHumans removes ids absent from the new input or whose plan is
// empty, creates new HumanState entries for new ids, and warm-starts or
// reinitializes existing ones identically to the robot TEB.
func (p *Planner) prepareHumans(humans map[uint64]HumanInput) error {
	for id := range p.humans {
		h, present := humans[id]
		if !present || len(h.Plan) == 0 {
			delete(p.humans, id)
			delete(p.humanViaPoints, id)
		}
	}

	for id, h := range humans {
		if len(h.Plan) == 0 {
			continue
		}
		state, exists := p.humans[id]
		if !exists {
			band, err := teb.NewFromPlan(h.Plan, p.cfg.Trajectory.DtRef, p.cfg.Trajectory.TebInitSkipDist, p.cfg.Trajectory.HumanMinSamples, true)
			if err != nil {
				return err
			}
			state = &HumanState{Teb: band}
			p.humans[id] = state
		} else {
			newGoal := h.Plan[len(h.Plan)-1]
			dist := state.Teb.Back().DistanceTo(newGoal)
			if p.cfg.Optim.DisableWarmStart || dist >= p.cfg.Trajectory.ForceReinitNewGoalDist {
				band, err := teb.NewFromPlan(h.Plan, p.cfg.Trajectory.DtRef, p.cfg.Trajectory.TebInitSkipDist, p.cfg.Trajectory.HumanMinSamples, true)
				if err != nil {
					return err
				}
				state.Teb = band
			} else if err := state.Teb.UpdateAndPrune(h.Plan[0], newGoal, p.cfg.Trajectory.HumanMinSamples); err != nil {
				return err
			}
		}

		if h.StartVel != nil {
			state.StartVel = *h.StartVel
			state.HasStartVel = true
		} else {
			state.HasStartVel = false
		}
		// Human goal velocity is always unset.
		state.GoalVelOpt = nil
	}
	return nil
}

// prepareApproachTarget stores the single supplied human pose as the
// approach target, falling back to the robot's current pose if zero or
// more than one human was supplied.
func (p *Planner) prepareApproachTarget(humans map[uint64]HumanInput) {
	var only *geom.Pose
	count := 0
	for _, h := range humans {
		if len(h.Plan) == 0 {
			continue
		}
		count++
		pose := h.Plan[0]
		only = &pose
	}

	if count == 1 {
		p.approachTarget = *only
	} else {
		p.approachTarget = p.robotTeb.Front()
	}
	p.hasApproachTarget = true
}
