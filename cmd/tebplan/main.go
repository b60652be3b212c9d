// Command tebplan runs one or more planning cycles (see --loop) from a JSON
// scenario file and prints the resulting velocity command and cost breakdown: a "load a JSON
// plan request, run the planner, print the result" harness built on
// urfave/cli/v2, with go-pretty's table and fatih/color for the report.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang/geo/r2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/elastictraj/teb/edges"
	"github.com/elastictraj/teb/geom"
	"github.com/elastictraj/teb/logging"
	"github.com/elastictraj/teb/obstacle"
	"github.com/elastictraj/teb/planconfig"
	"github.com/elastictraj/teb/planner"
	"github.com/elastictraj/teb/registry"
)

func main() {
	app := &cli.App{
		Name:  "tebplan",
		Usage: "run a local trajectory optimization cycle from a JSON scenario file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
			&cli.IntFlag{Name: "outer", Usage: "override optim.no_outer_iterations"},
			&cli.IntFlag{Name: "inner", Usage: "override optim.no_inner_iterations"},
			&cli.IntFlag{Name: "loop", Value: 1, Usage: "repeat the planning cycle this many times, warm-starting each time"},
		},
		Action: runPlan,
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

// scenarioFile is the on-disk shape tebplan reads: an initial plan plus the
// optional start velocity, free-goal-velocity flag, obstacles, via points,
// and config overrides. It has no field for human inputs.
type scenarioFile struct {
	InitialPlan [][3]float64          `json:"initial_plan"`
	StartVel    *[2]float64           `json:"start_vel"`
	FreeGoalVel bool                  `json:"free_goal_vel"`
	Obstacles   []scenarioObstacle    `json:"obstacles"`
	ViaPoints   [][2]float64          `json:"via_points"`
	Config      map[string]interface{} `json:"config"`
}

type scenarioObstacle struct {
	Kind     string     `json:"kind"`
	Point    [2]float64 `json:"point"`
	Radius   float64    `json:"radius"`
	Velocity [2]float64 `json:"velocity"`
}

func runPlan(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("need a scenario JSON file")
	}

	logger := logging.NewLogger("tebplan")
	if c.Bool("verbose") {
		logger.SetLevel(zapcore.DebugLevel)
	}

	content, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	var scenario scenarioFile
	if err := json.Unmarshal(content, &scenario); err != nil {
		return err
	}

	cfg := planconfig.Default()
	if len(scenario.Config) > 0 {
		cfg, err = planconfig.DecodeAttributes(cfg, scenario.Config)
		if err != nil {
			return err
		}
	}
	if c.IsSet("outer") {
		cfg.Optim.NoOuterIterations = c.Int("outer")
	}
	if c.IsSet("inner") {
		cfg.Optim.NoInnerIterations = c.Int("inner")
	}

	input := planner.PlanInput{
		FreeGoalVel: scenario.FreeGoalVel,
	}
	for _, p := range scenario.InitialPlan {
		input.InitialPlan = append(input.InitialPlan, geom.NewPose(p[0], p[1], p[2]))
	}
	if scenario.StartVel != nil {
		v := edges.Velocity2D{V: scenario.StartVel[0], W: scenario.StartVel[1]}
		input.StartVel = &v
	}
	for _, o := range scenario.Obstacles {
		input.Obstacles = append(input.Obstacles, toObstacle(o))
	}
	for _, vp := range scenario.ViaPoints {
		input.ViaPoints = append(input.ViaPoints, obstacle.NewViaPoint(pointXY(vp[0], vp[1])))
	}

	p := planner.New(cfg, logger)

	loops := c.Int("loop")
	if loops < 1 {
		loops = 1
	}

	var ok bool
	var elapsed time.Duration
	for i := 0; i < loops; i++ {
		start := time.Now()
		ok, err = p.Plan(input)
		elapsed = time.Since(start)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}

	if !ok {
		color.Yellow("plan() returned false (disabled by config or solver failed)")
		return nil
	}

	v, w, err := p.GetVelocityCommand()
	if err != nil {
		return err
	}

	color.Green("planning cycle succeeded in %v", elapsed)
	fmt.Printf("velocity command: v=%.4f  w=%.4f\n", v, w)
	fmt.Printf("total cost: %.6f\n", p.LastCost())

	printCostBreakdown(p)
	return nil
}

func pointXY(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

func toObstacle(o scenarioObstacle) obstacle.Obstacle {
	switch o.Kind {
	case "dynamic_circle":
		return obstacle.NewDynamicCircleObstacle(pointXY(o.Point[0], o.Point[1]), o.Radius, pointXY(o.Velocity[0], o.Velocity[1]), obstacle.SourceDirect)
	default:
		return obstacle.NewPointObstacle(pointXY(o.Point[0], o.Point[1]), obstacle.SourceDirect)
	}
}

// printCostBreakdown renders the per-family cost breakdown in the registry's
// fixed assembly order, with each row tagged by whether it belongs to the
// robot or a tracked human, per FamilyInfo.IsHuman. A family absent from the
// breakdown (skipped because its weight was zero) is simply omitted.
func printCostBreakdown(p *planner.Planner) {
	breakdown := p.LastCostBreakdown()
	if len(breakdown) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"family", "scope", "cost"})

	for _, fam := range registry.Families() {
		cost, ok := breakdown[fam]
		if !ok {
			continue
		}
		info, ok := registry.Lookup(fam)
		name := info.Name
		scope := "robot"
		if !ok {
			name = fam.String()
		} else if info.IsHuman {
			scope = "human"
		}
		t.AppendRow(table.Row{name, scope, fmt.Sprintf("%.6f", cost)})
	}
	t.Render()
}
