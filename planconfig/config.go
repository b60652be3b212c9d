// Package planconfig declares the configuration surface of the planner,
// grouped into namespaces: trajectory, robot, optim, obstacles, and
// planning_mode. Defaults are declared as named constants, and a
// loosely-typed map can be decoded into the typed struct with
// github.com/go-viper/mapstructure/v2, the same way a component's
// attributes arrive as a map[string]interface{} from a config loader.
package planconfig

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// PlanningMode selects which participants are jointly optimized.
type PlanningMode int

const (
	// ModeRobotOnly optimizes only the robot's TEB; all human TEBs are cleared.
	ModeRobotOnly PlanningMode = 0
	// ModeCoPlanned jointly optimizes the robot TEB and every co-present human TEB.
	ModeCoPlanned PlanningMode = 1
	// ModeApproachHuman optimizes the robot TEB towards a single approach target
	// derived from one tracked human.
	ModeApproachHuman PlanningMode = 2
)

// default values for a fresh Config.
const (
	defaultDtRef                  = 0.3
	defaultDtHysteresis           = 0.1
	defaultMinSamples             = 5
	defaultHumanMinSamples        = 3
	defaultTebInitSkipDist        = 0.1
	defaultForceReinitNewGoalDist = 1.0

	defaultMaxVelX          = 0.4
	defaultMaxVelTheta      = 0.3
	defaultAccLimX          = 0.5
	defaultAccLimTheta      = 0.5
	defaultMinTurningRadius = 0.0

	defaultNoInnerIterations = 5
	defaultNoOuterIterations = 4

	defaultObstaclePosesAffected = 2
	defaultMinObstacleDist       = 0.5

	defaultWeightRampIterations = 0

	defaultLegacyCarlikeFamilyGate = true
)

// TrajectoryConfig is the `trajectory` config group.
type TrajectoryConfig struct {
	DtRef                   float64 `mapstructure:"dt_ref"`
	DtHysteresis            float64 `mapstructure:"dt_hysteresis"`
	MinSamples              int     `mapstructure:"min_samples"`
	HumanMinSamples         int     `mapstructure:"human_min_samples"`
	TebInitSkipDist         float64 `mapstructure:"teb_init_skip_dist"`
	ForceReinitNewGoalDist  float64 `mapstructure:"force_reinit_new_goal_dist"`
	TebAutosize             bool    `mapstructure:"teb_autosize"`
	ViaPointsOrdered        bool    `mapstructure:"via_points_ordered"`
	PublishFeedback         bool    `mapstructure:"publish_feedback"`
}

// RobotConfig is the `robot` config group.
type RobotConfig struct {
	MaxVelX            float64 `mapstructure:"max_vel_x"`
	MaxVelTheta        float64 `mapstructure:"max_vel_theta"`
	AccLimX            float64 `mapstructure:"acc_lim_x"`
	AccLimTheta        float64 `mapstructure:"acc_lim_theta"`
	MinTurningRadius   float64 `mapstructure:"min_turning_radius"`
	AllowInPlaceRotation bool  `mapstructure:"allow_in_place_rotation"`
}

// EdgeWeights holds the per-family weights for every edge family the
// planner can build. A zero weight disables the corresponding edge family.
type EdgeWeights struct {
	Obstacle           float64 `mapstructure:"weight_obstacle"`
	DynamicObstacle    float64 `mapstructure:"weight_dynamic_obstacle"`
	ViaPoint           float64 `mapstructure:"weight_via_point"`
	VelocityCaps       float64 `mapstructure:"weight_velocity"`
	AccelerationCaps   float64 `mapstructure:"weight_acceleration"`
	TimeOptimal        float64 `mapstructure:"weight_time_optimal"`
	KinematicsNonholo  float64 `mapstructure:"weight_kinematics_nonholonomic"`
	KinematicsForward  float64 `mapstructure:"weight_kinematics_forward_drive"`
	TurningRadius      float64 `mapstructure:"weight_turning_radius"`

	HumanObstacle          float64 `mapstructure:"weight_human_obstacle"`
	HumanVelocityCaps       float64 `mapstructure:"weight_human_velocity"`
	HumanAccelerationCaps   float64 `mapstructure:"weight_human_acceleration"`
	HumanTimeOptimal        float64 `mapstructure:"weight_human_time_optimal"`
	HumanKinematicsNonholo  float64 `mapstructure:"weight_human_kinematics_nonholonomic"`
	HumanTurningRadius      float64 `mapstructure:"weight_human_turning_radius"`
	HumanNominalVelocity    float64 `mapstructure:"weight_human_nominal_velocity"`

	HumanRobotSafety      float64 `mapstructure:"weight_human_robot_safety"`
	HumanRobotTTC         float64 `mapstructure:"weight_human_robot_ttc"`
	HumanRobotDirectional float64 `mapstructure:"weight_human_robot_directional"`
	HumanHumanSafety      float64 `mapstructure:"weight_human_human_safety"`
}

// OptimConfig is the `optim` config group.
type OptimConfig struct {
	NoInnerIterations      int  `mapstructure:"no_inner_iterations"`
	NoOuterIterations      int  `mapstructure:"no_outer_iterations"`
	OptimizationActivate   bool `mapstructure:"optimization_activate"`
	OptimizationVerbose    bool `mapstructure:"optimization_verbose"`
	DisableWarmStart       bool `mapstructure:"disable_warm_start"`
	// WeightRampIterations ramps edge weights up linearly over this many
	// outer iterations after a full re-initialization, to avoid overshooting
	// from a poor initial guess.
	WeightRampIterations int `mapstructure:"weight_ramp_iterations"`
	// LegacyCarlikeFamilyGate reproduces the carlike kinematics family's
	// original disabling check literally: the family is skipped only when
	// weight_kinematics_nonholonomic is exactly zero and weight_turning_radius
	// is nonzero. Disabling this flag falls back to the more conventional
	// "skip only when both weights are zero" gate.
	LegacyCarlikeFamilyGate bool `mapstructure:"legacy_carlike_family_gate"`

	Weights EdgeWeights `mapstructure:"weights"`
}

// ObstaclesConfig is the `obstacles` config group.
type ObstaclesConfig struct {
	ObstaclePosesAffected int     `mapstructure:"obstacle_poses_affected"`
	MinObstacleDist       float64 `mapstructure:"min_obstacle_dist"`
}

// Config is the full configuration surface of the planner.
type Config struct {
	Trajectory   TrajectoryConfig `mapstructure:"trajectory"`
	Robot        RobotConfig      `mapstructure:"robot"`
	Optim        OptimConfig      `mapstructure:"optim"`
	Obstacles    ObstaclesConfig  `mapstructure:"obstacles"`
	PlanningMode PlanningMode     `mapstructure:"planning_mode"`
}

// Default returns a Config populated with the default constants above.
func Default() Config {
	return Config{
		Trajectory: TrajectoryConfig{
			DtRef:                  defaultDtRef,
			DtHysteresis:           defaultDtHysteresis,
			MinSamples:             defaultMinSamples,
			HumanMinSamples:        defaultHumanMinSamples,
			TebInitSkipDist:        defaultTebInitSkipDist,
			ForceReinitNewGoalDist: defaultForceReinitNewGoalDist,
			TebAutosize:            true,
			ViaPointsOrdered:       false,
			PublishFeedback:        false,
		},
		Robot: RobotConfig{
			MaxVelX:          defaultMaxVelX,
			MaxVelTheta:      defaultMaxVelTheta,
			AccLimX:          defaultAccLimX,
			AccLimTheta:      defaultAccLimTheta,
			MinTurningRadius: defaultMinTurningRadius,
		},
		Optim: OptimConfig{
			NoInnerIterations:    defaultNoInnerIterations,
			NoOuterIterations:    defaultNoOuterIterations,
			OptimizationActivate:    true,
			WeightRampIterations:    defaultWeightRampIterations,
			LegacyCarlikeFamilyGate: defaultLegacyCarlikeFamilyGate,
			Weights: EdgeWeights{
				Obstacle:         1.0,
				DynamicObstacle:  1.0,
				ViaPoint:         0.5,
				VelocityCaps:     1.0,
				AccelerationCaps: 1.0,
				TimeOptimal:      1.0,
				KinematicsNonholo: 1000.0,
				KinematicsForward: 1.0,
				TurningRadius:     1000.0,

				HumanObstacle:          1.0,
				HumanVelocityCaps:      1.0,
				HumanAccelerationCaps:  1.0,
				HumanTimeOptimal:       0.0,
				HumanKinematicsNonholo: 1000.0,
				HumanTurningRadius:     0.0,
				HumanNominalVelocity:   1.0,

				HumanRobotSafety:      2.0,
				HumanRobotTTC:         1.0,
				HumanRobotDirectional: 1.0,
				HumanHumanSafety:      2.0,
			},
		},
		Obstacles: ObstaclesConfig{
			ObstaclePosesAffected: defaultObstaclePosesAffected,
			MinObstacleDist:       defaultMinObstacleDist,
		},
		PlanningMode: ModeRobotOnly,
	}
}

// DecodeAttributes decodes a loosely-typed attribute map (the shape a config
// loader hands to a component constructor) on top of the supplied defaults,
// returning the merged Config.
func DecodeAttributes(defaults Config, attrs map[string]interface{}) (Config, error) {
	cfg := defaults
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, errors.Wrap(err, "building attribute decoder")
	}
	if err := decoder.Decode(attrs); err != nil {
		return cfg, errors.Wrap(err, "decoding planner attributes")
	}
	return cfg, nil
}
