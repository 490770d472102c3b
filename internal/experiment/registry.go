package experiment

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/metrics"
)

// PointerParams describes a scripted drag for headless runs.
type PointerParams struct {
	Target r2.Point
	// Start and Ticks bound the drag window for "pulse".
	Start int
	Ticks int
}

type Registry struct {
	pointers map[string]func(PointerParams) dynamo.Pointer
	metrics  map[string]func(mass float64) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		pointers: make(map[string]func(PointerParams) dynamo.Pointer),
		metrics:  make(map[string]func(float64) dynamo.Metric),
	}

	r.pointers["none"] = func(PointerParams) dynamo.Pointer { return dynamo.NoDrag{} }
	r.pointers["hold"] = func(p PointerParams) dynamo.Pointer { return dynamo.HeldDrag{Target: p.Target} }
	r.pointers["pulse"] = func(p PointerParams) dynamo.Pointer {
		return &Pulse{Target: p.Target, Start: p.Start, Ticks: p.Ticks}
	}

	r.metrics["kinetic_energy"] = func(mass float64) dynamo.Metric { return metrics.NewKineticEnergy(mass) }
	r.metrics["settle"] = func(float64) dynamo.Metric { return metrics.NewSettle(100) }
	r.metrics["wall_hits"] = func(float64) dynamo.Metric { return metrics.NewWallHits("wall_hits", "") }
	r.metrics["floor_hits"] = func(float64) dynamo.Metric { return metrics.NewWallHits("floor_hits", "bottom") }
	r.metrics["min_volume"] = func(float64) dynamo.Metric { return metrics.NewMinVolume() }

	return r
}

func (r *Registry) GetPointer(name string, p PointerParams) (dynamo.Pointer, error) {
	fn, ok := r.pointers[name]
	if !ok {
		return nil, fmt.Errorf("unknown drag mode: %s (available: %v)", name, r.ListPointers())
	}
	return fn(p), nil
}

func (r *Registry) ListPointers() []string { return sortedKeys(r.pointers) }

// DefaultMetrics returns one fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(mass float64) []dynamo.Metric {
	names := sortedKeys(r.metrics)
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name](mass))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pulse drags toward Target for Ticks ticks starting at tick Start. It
// counts its own polls, so it must be polled exactly once per tick.
type Pulse struct {
	Target r2.Point
	Start  int
	Ticks  int
	polled int
}

func (p *Pulse) Drag() dynamo.Drag {
	tick := p.polled
	p.polled++
	if tick >= p.Start && tick < p.Start+p.Ticks {
		return dynamo.Drag{Active: true, Target: p.Target}
	}
	return dynamo.Drag{}
}
