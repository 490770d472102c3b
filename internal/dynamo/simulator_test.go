package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

// testBody is a single point that falls at unit acceleration and reports a
// new wall every time it passes a multiple of 10 in y.
type testBody struct {
	pos, vel r2.Point
	drags    []Drag
	bounds   []Bounds
	wall     string
	fresh    bool
	poison   int
	ticks    int
}

func (b *testBody) Advance(dt float64, drag Drag, bounds Bounds) {
	b.drags = append(b.drags, drag)
	b.bounds = append(b.bounds, bounds)
	b.ticks++

	before := math.Floor(b.pos.Y / 10)
	b.vel.Y += dt
	b.pos = b.pos.Add(b.vel.Mul(dt))
	if math.Floor(b.pos.Y/10) != before {
		b.wall = "bottom"
		b.fresh = true
	}
	if b.poison > 0 && b.ticks >= b.poison {
		b.pos.X = math.NaN()
	}
}

func (b *testBody) State() State       { return State{b.pos.X, b.pos.Y, b.vel.X, b.vel.Y} }
func (b *testBody) Centroid() r2.Point { return b.pos }
func (b *testBody) Volume() float64    { return 1 }

func (b *testBody) Collided() (string, bool) {
	fresh := b.fresh
	b.fresh = false
	return b.wall, fresh
}

type countingPointer struct{ polls int }

func (p *countingPointer) Drag() Drag {
	p.polls++
	return Drag{Active: p.polls%2 == 0}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s Sample) {
	t.count++
	t.sum += s.Centroid.Y
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func box() Viewport { return FixedViewport(Bounds{Width: 100, Height: 100}) }

func TestSimulatorRun(t *testing.T) {
	body := &testBody{}
	sim := New(body, box(), nil)

	cfg := Config{AnimationSpeed: 10, Ticks: 10}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.TicksTaken != 10 {
		t.Errorf("expected 10 ticks, got %d", result.TicksTaken)
	}
	if len(result.Samples) != 10 {
		t.Errorf("expected 10 samples, got %d", len(result.Samples))
	}
	last := result.Samples[len(result.Samples)-1]
	if math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", last.Time)
	}
	if last.State != nil {
		t.Error("stored samples should not keep full state")
	}
	if len(result.Final) != 4 || result.Final[1] != body.pos.Y {
		t.Errorf("unexpected final state %v", result.Final)
	}
}

func TestSimulatorPollsOncePerTick(t *testing.T) {
	body := &testBody{}
	ptr := &countingPointer{}
	sim := New(body, box(), ptr)

	if _, err := sim.Run(context.Background(), Config{AnimationSpeed: 1, Ticks: 6}); err != nil {
		t.Fatal(err)
	}
	if ptr.polls != 6 {
		t.Errorf("expected 6 polls, got %d", ptr.polls)
	}
	for i, d := range body.drags {
		if d.Active != ((i+1)%2 == 0) {
			t.Errorf("tick %d: body saw drag %v", i, d.Active)
		}
	}
	if len(body.bounds) != 6 || body.bounds[0].Width != 100 {
		t.Errorf("bounds not forwarded: %v", body.bounds)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&testBody{}, box(), nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero speed", Config{AnimationSpeed: 0, Ticks: 10}},
		{"negative speed", Config{AnimationSpeed: -1, Ticks: 10}},
		{"NaN speed", Config{AnimationSpeed: math.NaN(), Ticks: 10}},
		{"zero ticks", Config{AnimationSpeed: 1, Ticks: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := New(nil, box(), nil).Run(context.Background(), DefaultConfig()); !errors.Is(err, ErrNoBody) {
		t.Errorf("expected ErrNoBody, got %v", err)
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&testBody{}, box(), nil)
	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{AnimationSpeed: 10, Ticks: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorRecordsCollisions(t *testing.T) {
	// falls past y=10 somewhere within the first 50 ticks at dt=0.1
	sim := New(&testBody{}, box(), nil)
	result, err := sim.Run(context.Background(), Config{AnimationSpeed: 10, Ticks: 50})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Collisions) == 0 {
		t.Fatal("expected at least one collision event")
	}
	ev := result.Collisions[0]
	if ev.Wall != "bottom" || !result.Samples[ev.Tick].NewCollision {
		t.Errorf("collision %+v not reflected in samples", ev)
	}
}

func TestSimulatorStopsOnInvalidState(t *testing.T) {
	sim := New(&testBody{poison: 3}, box(), nil)
	result, err := sim.Run(context.Background(), Config{AnimationSpeed: 1, Ticks: 10, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.TicksTaken != 3 {
		t.Errorf("expected to stop at tick 3, took %d", result.TicksTaken)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	var simErr *SimError
	if !errors.As(result.Errors[0], &simErr) || simErr.Tick != 2 {
		t.Errorf("expected SimError at tick 2, got %v", result.Errors[0])
	}
	if !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Error("error should wrap ErrInvalidState")
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(&testBody{}, box(), nil).Run(ctx, Config{AnimationSpeed: 1, Ticks: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.TicksTaken != 0 {
		t.Errorf("cancelled run should return an empty partial result, got %+v", result)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(&testBody{}, box(), nil)
	seen := 0
	err := sim.RunWithCallback(context.Background(), Config{AnimationSpeed: 1}, func(s Sample) bool {
		seen++
		return seen < 5
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != 5 {
		t.Errorf("expected callback to stop after 5 ticks, saw %d", seen)
	}
}

func TestEnsemble(t *testing.T) {
	bodies := []*testBody{{}, {pos: r2.Point{Y: 50}}, {}}
	ens := NewEnsemble(2)
	for _, b := range bodies {
		ens.Add(New(b, box(), nil))
	}
	if ens.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", ens.Len())
	}

	results, err := ens.Run(context.Background(), Config{AnimationSpeed: 10, Ticks: 20})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	for i, res := range results {
		if res.TicksTaken != 20 {
			t.Errorf("member %d took %d ticks", i, res.TicksTaken)
		}
	}
	if results[1].Final[1] <= results[0].Final[1] {
		t.Error("results out of member order")
	}
}

func TestEnsembleFailsFast(t *testing.T) {
	ens := NewEnsemble(0, New(&testBody{}, box(), nil), New(nil, box(), nil))
	if _, err := ens.Run(context.Background(), Config{AnimationSpeed: 1, Ticks: 5}); !errors.Is(err, ErrNoBody) {
		t.Errorf("expected ErrNoBody, got %v", err)
	}
}
