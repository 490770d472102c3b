package dynamo

import (
	"math"

	"github.com/golang/geo/r2"
)

// State is a flat snapshot of a body: x, y, vx, vy per node in ring order.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Positions extracts the node positions from a flat state.
func (s State) Positions() []r2.Point {
	n := len(s) / 4
	out := make([]r2.Point, n)
	for i := 0; i < n; i++ {
		out[i] = r2.Point{X: s[i*4], Y: s[i*4+1]}
	}
	return out
}

// Velocities extracts the node velocities from a flat state.
func (s State) Velocities() []r2.Point {
	n := len(s) / 4
	out := make([]r2.Point, n)
	for i := 0; i < n; i++ {
		out[i] = r2.Point{X: s[i*4+2], Y: s[i*4+3]}
	}
	return out
}

// Drag is the pointer signal polled once per tick.
type Drag struct {
	Active bool
	Target r2.Point
}

// Bounds is the collision box [0,Width] x [0,Height]. It may change between ticks.
type Bounds struct {
	Width  float64
	Height float64
}

type Pointer interface {
	Drag() Drag
}

type Viewport interface {
	Bounds() Bounds
}

// NoDrag is a Pointer that never drags.
type NoDrag struct{}

func (NoDrag) Drag() Drag { return Drag{} }

// HeldDrag is a Pointer that drags toward a fixed target for every tick.
type HeldDrag struct {
	Target r2.Point
}

func (h HeldDrag) Drag() Drag { return Drag{Active: true, Target: h.Target} }

// FixedViewport is a Viewport that never resizes.
type FixedViewport Bounds

func (v FixedViewport) Bounds() Bounds { return Bounds(v) }

// Body is anything advanced one tick at a time by a driver loop.
type Body interface {
	Advance(dt float64, drag Drag, bounds Bounds)
	State() State
	Centroid() r2.Point
	Volume() float64
	// Collided reports the last wall struck and consumes the new-collision edge.
	Collided() (wall string, fresh bool)
}

// Sample is the quiescent view of a body after one tick.
type Sample struct {
	Tick         int
	Time         float64
	Centroid     r2.Point
	Volume       float64
	Wall         string
	NewCollision bool
	Dragging     bool
	State        State
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Sample)
}

type Config struct {
	// AnimationSpeed scales the per-tick dt: dt = AnimationSpeed / 100.
	AnimationSpeed float64
	Ticks          int
	SampleEvery    int
	ValidateState  bool
}

func DefaultConfig() Config {
	return Config{
		AnimationSpeed: 1.0,
		Ticks:          1000,
		SampleEvery:    1,
		ValidateState:  true,
	}
}

// Dt is the timestep handed to both halves of every tick.
func (c Config) Dt() float64 {
	return c.AnimationSpeed / 100
}

// CollisionEvent records a transition to a different wall.
type CollisionEvent struct {
	Tick int    `json:"tick"`
	Wall string `json:"wall"`
}

type Result struct {
	Samples    []Sample
	Collisions []CollisionEvent
	Final      State
	Metrics    map[string]float64
	TicksTaken int
	Errors     []error
}
