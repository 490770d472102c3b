package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	nodeCount      int
	radius         float64
	originX        float64
	originY        float64
	gravity        bool
	springConstant float64
	springDamping  float64
	pressure       float64
	restitution    float64
	mass           float64
	skipFirst      bool

	animationSpeed float64
	ticks          int
	width          float64
	height         float64
	sampleEvery    int
	seed           int64

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "blobsim",
		Short:         "pressurized soft-body lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(os.Stderr)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".blobsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	pf.IntVar(&nodeCount, "nodes", config.DefaultNodeCount, "nodes on the ring")
	pf.Float64Var(&radius, "radius", 0, "ring radius (0 uses the node count)")
	pf.Float64Var(&originX, "x", config.DefaultOriginX, "ring center x")
	pf.Float64Var(&originY, "y", config.DefaultOriginY, "ring center y")
	pf.BoolVar(&gravity, "gravity", true, "apply gravity")
	pf.Float64Var(&springConstant, "k", 0.5, "spring constant")
	pf.Float64Var(&springDamping, "damping", 0.1, "spring damping")
	pf.Float64Var(&pressure, "pressure", 1.0, "internal pressure")
	pf.Float64Var(&restitution, "restitution", 0.95, "wall bounce factor")
	pf.Float64Var(&mass, "mass", 10, "node mass")
	pf.BoolVar(&skipFirst, "skip-first-spring", false, "leave spring 0 out of the volume sum")

	pf.Float64Var(&animationSpeed, "speed", config.DefaultAnimationSpeed, "animation speed (dt = speed/100)")
	pf.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to simulate")
	pf.Float64Var(&width, "width", config.DefaultWidth, "box width")
	pf.Float64Var(&height, "height", config.DefaultHeight, "box height")
	pf.IntVar(&sampleEvery, "sample-every", 1, "record every nth tick")
	pf.Int64Var(&seed, "seed", 1, "color seed")

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newEnsembleCmd(),
		newSweepCmd(),
		newTuneCmd(),
		newScenarioCmd(),
		newMonteCarloCmd(),
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newExportJSONCmd(),
		newExportCSVCmd(),
		newExportSVGCmd(),
		newPresetsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error(err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func setupLogger(w *os.File) error {
	level, err := log.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "blobsim",
	})
	return nil
}

// resolveConfig layers defaults, then the preset, then the config file, then
// any flag the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("nodes", func() { cfg.Body.NodeCount = nodeCount })
	set("radius", func() { cfg.Body.Radius = radius })
	set("x", func() { cfg.Body.OriginX = originX })
	set("y", func() { cfg.Body.OriginY = originY })
	set("gravity", func() { cfg.Body.Gravity = gravity })
	set("k", func() { cfg.Body.SpringConstant = springConstant })
	set("damping", func() { cfg.Body.SpringDamping = springDamping })
	set("pressure", func() { cfg.Body.Pressure = pressure })
	set("restitution", func() { cfg.Body.Restitution = restitution })
	set("mass", func() { cfg.Body.Mass = mass })
	set("skip-first-spring", func() { cfg.Body.SkipFirstSpring = skipFirst })
	set("speed", func() { cfg.Sim.AnimationSpeed = animationSpeed })
	set("ticks", func() { cfg.Sim.Ticks = ticks })
	set("width", func() { cfg.Sim.Width = width })
	set("height", func() { cfg.Sim.Height = height })
	set("sample-every", func() { cfg.Sim.SampleEvery = sampleEvery })
	set("seed", func() { cfg.Sim.Seed = seed })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved", "preset", preset, "file", configFile, "nodes", cfg.Body.NodeCount, "dt", cfg.RunConfig().Dt())
	return cfg, nil
}

func runName() string {
	if preset != "" {
		return preset
	}
	return "run"
}
