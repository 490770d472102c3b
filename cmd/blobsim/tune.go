package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/experiment"
	"github.com/san-kum/blobsim/internal/optim"
	"github.com/spf13/cobra"
)

var (
	tuneParams []string
	tuneMetric string
)

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search body parameters that minimize a metric",
		Example: "  blobsim tune --param pressure=0.5:4:8 --param k=0.2:1:5 --metric settle\n" +
			"  blobsim tune --preset drop --param restitution=0.5:1:6 --metric wall_hits",
		Args: cobra.NoArgs,
		RunE: runTune,
	}
	cmd.Flags().StringArrayVar(&tuneParams, "param", []string{"pressure=0.5:4:8"}, "name=min:max:steps, repeatable")
	cmd.Flags().StringVar(&tuneMetric, "metric", "settle", "metric to minimize")
	return cmd
}

// parseRange reads "name=min:max:steps".
func parseRange(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("param %q: want name=min:max:steps", arg)
	}
	if _, known := config.Params[name]; !known {
		return "", nil, fmt.Errorf("unknown parameter: %s", name)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("param %q: want name=min:max:steps", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("param %s min: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("param %s max: %w", name, err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 1 {
		return "", nil, fmt.Errorf("param %s steps must be a positive integer", name)
	}
	return name, optim.Linspace(lo, hi, steps), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, p := range tuneParams {
		name, values, err := parseRange(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		for name, v := range params {
			if err := c.Set(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(&c)
		return exp, exp.Setup(nil, registry.DefaultMetrics(c.Body.Mass), nil)
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("tuning", "params", names, "metric", tuneMetric)
	best, value, err := optim.NewGridSearch(names, ranges).Search(ctx, build, tuneMetric)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-12s %g\n", k, best[k])
	}
	fmt.Printf("%-12s %.6f\n", tuneMetric, value)
	return nil
}
