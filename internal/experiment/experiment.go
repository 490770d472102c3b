package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
)

// Experiment is one headless run of a configured body.
type Experiment struct {
	cfg       *config.Config
	body      *physics.SoftBody
	simulator *dynamo.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the body and wires it to a fixed viewport, the given pointer
// and metrics. A nil pointer means no drag.
func (e *Experiment) Setup(pointer dynamo.Pointer, metrics []dynamo.Metric, logger *log.Logger) error {
	body, err := e.cfg.NewBody()
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	e.body = body
	e.simulator = dynamo.New(body, dynamo.FixedViewport(e.cfg.Bounds()), pointer)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	if logger != nil {
		e.simulator.SetLogger(logger)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *dynamo.Simulator { return e.simulator }

func (e *Experiment) Body() *physics.SoftBody { return e.body }
func (e *Experiment) Config() *config.Config  { return e.cfg }
