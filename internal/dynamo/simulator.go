package dynamo

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

type Simulator struct {
	body      Body
	viewport  Viewport
	pointer   Pointer
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

// New wires a body to its collaborators. A nil pointer means no drag input.
func New(body Body, viewport Viewport, pointer Pointer) *Simulator {
	if pointer == nil {
		pointer = NoDrag{}
	}
	return &Simulator{
		body:      body,
		viewport:  viewport,
		pointer:   pointer,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)  { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *log.Logger) { s.logger = l }
func (s *Simulator) Body() Body              { return s.body }

// Tick advances the body once and returns the resulting quiescent sample.
func (s *Simulator) Tick(tick int, t, dt float64) Sample {
	drag := s.pointer.Drag()
	bounds := s.viewport.Bounds()

	s.body.Advance(dt, drag, bounds)

	wall, fresh := s.body.Collided()
	return Sample{
		Tick:         tick,
		Time:         t + dt,
		Centroid:     s.body.Centroid(),
		Volume:       s.body.Volume(),
		Wall:         wall,
		NewCollision: fresh,
		Dragging:     drag.Active,
		State:        s.body.State(),
	}
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Samples:    make([]Sample, 0, cfg.Ticks/every+1),
		Collisions: make([]CollisionEvent, 0),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	dt := cfg.Dt()
	t := 0.0

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			result.Final = s.body.State()
			return result, ctx.Err()
		default:
		}

		sample := s.Tick(i, t, dt)
		t = sample.Time
		result.TicksTaken++

		if cfg.ValidateState && !sample.State.IsValid() {
			err := &SimError{Tick: i, Time: t, Wrapped: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			if s.logger != nil {
				s.logger.Warn("stopping run", "tick", i, "err", err)
			}
			break
		}

		if sample.NewCollision {
			result.Collisions = append(result.Collisions, CollisionEvent{Tick: i, Wall: sample.Wall})
			if s.logger != nil {
				s.logger.Debug("new wall", "tick", i, "wall", sample.Wall)
			}
		}

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnTick(sample)
		}

		if i%every == 0 || i == cfg.Ticks-1 {
			sample.State = nil
			result.Samples = append(result.Samples, sample)
		}
	}

	result.Final = s.body.State()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validate(cfg Config) error {
	if s.body == nil {
		return ErrNoBody
	}
	if s.viewport == nil {
		return fmt.Errorf("%w: no viewport", ErrInvalidConfig)
	}
	if !(cfg.AnimationSpeed > 0) {
		return fmt.Errorf("%w: animation speed must be positive, got %f", ErrInvalidConfig, cfg.AnimationSpeed)
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, cfg.Ticks)
	}
	return nil
}

// RunWithCallback ticks until the callback returns false, the context ends
// or cfg.Ticks is reached (0 means unbounded).
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if !(cfg.AnimationSpeed > 0) {
		return fmt.Errorf("%w: animation speed must be positive, got %f", ErrInvalidConfig, cfg.AnimationSpeed)
	}
	if s.body == nil {
		return ErrNoBody
	}
	if s.viewport == nil {
		return fmt.Errorf("%w: no viewport", ErrInvalidConfig)
	}

	dt := cfg.Dt()
	t := 0.0

	for i := 0; cfg.Ticks <= 0 || i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sample := s.Tick(i, t, dt)
		t = sample.Time

		if cfg.ValidateState && !sample.State.IsValid() {
			return &SimError{Tick: i, Time: t, Wrapped: ErrInvalidState}
		}

		if !callback(sample) {
			return nil
		}
	}

	return nil
}
