package metrics

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// WallHits counts new-collision edges, optionally restricted to one wall.
type WallHits struct {
	name  string
	wall  string
	count int
}

// NewWallHits reports under name and counts every wall change when wall
// is empty.
func NewWallHits(name, wall string) *WallHits {
	return &WallHits{name: name, wall: wall}
}

func (w *WallHits) Name() string { return w.name }

func (w *WallHits) Observe(s dynamo.Sample) {
	if !s.NewCollision {
		return
	}
	if w.wall == "" || w.wall == s.Wall {
		w.count++
	}
}

func (w *WallHits) Value() float64 { return float64(w.count) }
func (w *WallHits) Reset()         { w.count = 0 }

// MinVolume tracks the smallest enclosed volume seen, a measure of how hard
// the body was squashed.
type MinVolume struct {
	name string
	min  float64
}

func NewMinVolume() *MinVolume {
	return &MinVolume{name: "min_volume", min: math.Inf(1)}
}

func (m *MinVolume) Name() string { return m.name }

func (m *MinVolume) Observe(s dynamo.Sample) {
	if s.Volume < m.min {
		m.min = s.Volume
	}
}

func (m *MinVolume) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinVolume) Reset() { m.min = math.Inf(1) }
