package planconfig

import (
	"testing"

	"go.viam.com/test"
)

func TestDefaultIsRobotOnlyWithPositiveWeights(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.PlanningMode, test.ShouldEqual, ModeRobotOnly)
	test.That(t, cfg.Optim.Weights.Obstacle, test.ShouldBeGreaterThan, 0)
	test.That(t, cfg.Trajectory.MinSamples, test.ShouldBeGreaterThan, 0)
}

func TestDecodeAttributesOverridesOnTopOfDefaults(t *testing.T) {
	attrs := map[string]interface{}{
		"planning_mode": 1,
		"robot": map[string]interface{}{
			"max_vel_x": 0.9,
		},
		"optim": map[string]interface{}{
			"weights": map[string]interface{}{
				"weight_obstacle": 5.0,
			},
		},
	}
	cfg, err := DecodeAttributes(Default(), attrs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.PlanningMode, test.ShouldEqual, ModeCoPlanned)
	test.That(t, cfg.Robot.MaxVelX, test.ShouldAlmostEqual, 0.9, 1e-9)
	test.That(t, cfg.Optim.Weights.Obstacle, test.ShouldAlmostEqual, 5.0, 1e-9)
	// Fields untouched by attrs retain the default value.
	test.That(t, cfg.Trajectory.MinSamples, test.ShouldEqual, Default().Trajectory.MinSamples)
}

func TestDecodeAttributesRejectsUnknownType(t *testing.T) {
	attrs := map[string]interface{}{
		"robot": map[string]interface{}{
			"max_vel_x": "not-a-number",
		},
	}
	_, err := DecodeAttributes(Default(), attrs)
	test.That(t, err, test.ShouldNotBeNil)
}
