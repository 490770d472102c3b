package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Params override the preset, Ticks overrides its length.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Params    map[string]float64 `yaml:"params"`
	Ticks     int                `yaml:"ticks"`
	Drag      string             `yaml:"drag"`
	DragX     float64            `yaml:"drag_x"`
	DragY     float64            `yaml:"drag_y"`
	DragStart int                `yaml:"drag_start"`
	DragTicks int                `yaml:"drag_ticks"`
	SaveAs    string             `yaml:"save_as"`
}

// StepResult pairs a finished run with the configuration that produced it.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *dynamo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// StepConfig resolves the configuration a step runs with.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	preset := step.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	for name, v := range step.Params {
		if err := cfg.Set(name, v); err != nil {
			return nil, err
		}
	}
	if step.Ticks > 0 {
		cfg.Sim.Ticks = step.Ticks
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order and stops at the first failure.
// The logger may be nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if logger != nil {
			logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)
		}

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		mode := step.Drag
		if mode == "" {
			mode = "none"
		}
		pointer, err := registry.GetPointer(mode, experiment.PointerParams{
			Target: r2.Point{X: step.DragX, Y: step.DragY},
			Start:  step.DragStart,
			Ticks:  step.DragTicks,
		})
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(pointer, registry.DefaultMetrics(cfg.Body.Mass), logger); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

// MonteCarloConfig jitters the ring's starting position around Base.
type MonteCarloConfig struct {
	Base      *config.Config
	Jitter    float64
	NumTrials int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID  int
	Origin   r2.Point
	Centroid r2.Point
	Walls    int
	Stable   bool // finished every tick with a finite state
}

// RunMonteCarlo runs NumTrials copies of Base, each starting from a
// randomly shifted origin. A zero seed uses the clock.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *log.Logger) ([]MonteCarloResult, error) {
	if cfg.Base == nil {
		return nil, fmt.Errorf("monte carlo: no base config")
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		c.Body.OriginX += (rng.Float64() - 0.5) * 2 * cfg.Jitter
		c.Body.OriginY += (rng.Float64() - 0.5) * 2 * cfg.Jitter

		exp := experiment.New(&c)
		if err := exp.Setup(nil, nil, nil); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID:  trial,
			Origin:   c.Origin(),
			Centroid: exp.Body().Centroid(),
			Walls:    len(result.Collisions),
			Stable:   len(result.Errors) == 0 && result.TicksTaken == c.Sim.Ticks,
		})

		if logger != nil && (trial+1)%10 == 0 {
			logger.Info("monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
