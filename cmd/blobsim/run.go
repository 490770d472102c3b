package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/analysis"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/experiment"
	"github.com/san-kum/blobsim/internal/physics"
	"github.com/san-kum/blobsim/internal/storage"
	"github.com/san-kum/blobsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dragMode   string
	dragX      float64
	dragY      float64
	dragStart  int
	dragTicks  int
	noSave     bool
	liveLog    string
	theme      string
	unitsDot   float64
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	transient  int
	record     int
	workers    int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	cmd.Flags().StringVar(&dragMode, "drag", "none", "scripted drag: none, hold or pulse")
	cmd.Flags().Float64Var(&dragX, "drag-x", 300, "drag target x")
	cmd.Flags().Float64Var(&dragY, "drag-y", 100, "drag target y")
	cmd.Flags().IntVar(&dragStart, "drag-start", 0, "first tick of a pulse drag")
	cmd.Flags().IntVar(&dragTicks, "drag-ticks", 100, "length of a pulse drag in ticks")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	pointer, err := registry.GetPointer(dragMode, experiment.PointerParams{
		Target: r2.Point{X: dragX, Y: dragY},
		Start:  dragStart,
		Ticks:  dragTicks,
	})
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(pointer, registry.DefaultMetrics(cfg.Body.Mass), logger); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "nodes", cfg.Body.NodeCount, "ticks", cfg.Sim.Ticks, "dt", cfg.RunConfig().Dt(), "drag", dragMode)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", "err", err, "ticks", result.TicksTaken)
	}
	for _, e := range result.Errors {
		logger.Warn("run stopped early", "err", e)
	}

	elapsed := time.Since(start)
	fmt.Printf("completed %d ticks in %v\n", result.TicksTaken, elapsed)
	fmt.Printf("collisions: %d\n", len(result.Collisions))
	printMetrics(result.Metrics)

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(metadataFor(cfg), result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func metadataFor(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Name:           runName(),
		Seed:           cfg.Sim.Seed,
		Dt:             cfg.RunConfig().Dt(),
		AnimationSpeed: cfg.Sim.AnimationSpeed,
		NodeCount:      cfg.Body.NodeCount,
		Width:          cfg.Sim.Width,
		Height:         cfg.Sim.Height,
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "run the body in the terminal, drag it with the mouse",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	cmd.Flags().StringVar(&liveLog, "log-file", "blobsim.log", "log file while the TUI owns the terminal")
	cmd.Flags().StringVar(&theme, "theme", "night", "panel theme")
	cmd.Flags().Float64Var(&unitsDot, "scale", 2, "world units per braille dot")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	f, err := tea.LogToFile(liveLog, "blobsim")
	if err != nil {
		return err
	}
	defer f.Close()
	fileLogger := log.NewWithOptions(f, log.Options{Level: logger.GetLevel(), ReportTimestamp: true})

	// The ring keeps its configured size and is centered horizontally in
	// whatever box the terminal gives it.
	build := func(b dynamo.Bounds) (*physics.SoftBody, error) {
		c := *cfg
		c.Sim.Width, c.Sim.Height = b.Width, b.Height
		c.Body.OriginX = b.Width / 2
		if c.Body.OriginY > b.Height {
			c.Body.OriginY = b.Height / 3
		}
		return c.NewBody()
	}

	model, err := viz.NewModel(viz.Options{
		Build:       build,
		Dt:          cfg.RunConfig().Dt(),
		UnitsPerDot: unitsDot,
		Seed:        cfg.Sim.Seed,
		Theme:       theme,
		Logger:      fileLogger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func newEnsembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble [preset...]",
		Short: "run several presets side by side and compare them",
		Args:  cobra.ArbitraryArgs,
		RunE:  runEnsemble,
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 uses GOMAXPROCS)")
	return cmd
}

// runEnsemble gives each preset its own body but shares the resolved run
// settings, so every member ticks the same number of times at the same dt.
func runEnsemble(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = config.ListPresets()
		sort.Strings(names)
	}

	registry := experiment.NewRegistry()
	ens := dynamo.NewEnsemble(workers)
	for _, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", name)
		}
		cfg.Sim = base.Sim

		exp := experiment.New(cfg)
		if err := exp.Setup(nil, registry.DefaultMetrics(cfg.Body.Mass), logger.WithPrefix(name)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		ens.Add(exp.Simulator())
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running ensemble", "members", ens.Len(), "ticks", base.Sim.Ticks)
	results, err := ens.Run(ctx, base.RunConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tTICKS\tHITS\tFLOOR\tMIN VOL\tSETTLE\tKE")
	for i, res := range results {
		m := res.Metrics
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%.1f\t%.3f\t%.3f\n",
			names[i], res.TicksTaken, m["wall_hits"], m["floor_hits"], m["min_volume"], m["settle"], m["kinetic_energy"])
	}
	return w.Flush()
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "settled centroid heights across a range of one body parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	cmd.Flags().StringVar(&sweepParam, "param", "pressure", "body parameter to vary: pressure, k, damping, mass, restitution, radius, x or y")
	cmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	cmd.Flags().Float64Var(&sweepMax, "max", 5, "last value")
	cmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of values")
	cmd.Flags().IntVar(&transient, "transient", 2000, "ticks to settle before recording")
	cmd.Flags().IntVar(&record, "record", 500, "ticks to record")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if _, ok := config.Params[sweepParam]; !ok {
		return fmt.Errorf("unknown sweep parameter: %s (available: %v)", sweepParam, config.ParamNames())
	}

	build := func(v float64) (dynamo.Body, error) {
		c := *cfg
		if err := c.Set(sweepParam, v); err != nil {
			return nil, err
		}
		return c.NewBody()
	}

	logger.Info("sweeping", "param", sweepParam, "min", sweepMin, "max", sweepMax, "steps", sweepSteps)
	points, err := analysis.Sweep(build, sweepMin, sweepMax, sweepSteps, cfg.Bounds(), cfg.RunConfig().Dt(), transient, record)
	if err != nil {
		return err
	}

	fmt.Printf("centroid y vs %s (%g..%g), lower rows sit lower in the box\n\n", sweepParam, sweepMin, sweepMax)
	fmt.Print(analysis.SweepToASCII(points, 60, 16))
	return nil
}
