package main

import (
	"fmt"

	"github.com/san-kum/blobsim/internal/automation"
	"github.com/san-kum/blobsim/internal/experiment"
	"github.com/san-kum/blobsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	mcTrials int
	mcJitter float64
)

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run a scripted sequence of simulations",
		Long: `Runs each step of a YAML scenario in order. Steps name a preset,
optional parameter overrides, a tick count and a scripted drag. Steps
with save_as are stored like "blobsim run" results.`,
		Args: cobra.ExactArgs(1),
		RunE: runScenario,
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for i, r := range results {
		name := r.Step.Preset
		if name == "" {
			name = "default"
		}
		fmt.Printf("step %d (%s): %d ticks, %d collisions\n", i+1, name, r.Result.TicksTaken, len(r.Result.Collisions))
		if r.Step.SaveAs == "" {
			continue
		}
		meta := metadataFor(r.Config)
		meta.Name = r.Step.SaveAs
		runID, err := st.Save(meta, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("  saved %s as %s\n", r.Step.SaveAs, runID)
	}
	return nil
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a run from randomly shifted starting positions",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	cmd.Flags().IntVar(&mcTrials, "trials", 50, "number of runs")
	cmd.Flags().Float64Var(&mcJitter, "jitter", 20, "max origin shift along each axis")
	return cmd
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		Jitter:    mcJitter,
		NumTrials: mcTrials,
		Seed:      cfg.Sim.Seed,
	}, logger)
	if err != nil {
		return err
	}

	walls := 0
	for _, r := range results {
		walls += r.Walls
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d  stable: %d  unstable: %d\n", len(results), stable, unstable)
	if len(results) > 0 {
		fmt.Printf("mean wall changes per run: %.2f\n", float64(walls)/float64(len(results)))
	}
	return nil
}
