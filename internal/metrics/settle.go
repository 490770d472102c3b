package metrics

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Settle measures how far the centroid height wandered over the trailing
// window of ticks. A body at rest on the floor reports close to zero.
type Settle struct {
	name   string
	window int
	ys     []float64
	next   int
	seen   int
}

func NewSettle(window int) *Settle {
	if window < 1 {
		window = 1
	}
	return &Settle{
		name:   "settle",
		window: window,
		ys:     make([]float64, window),
	}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) Observe(sample dynamo.Sample) {
	s.ys[s.next] = sample.Centroid.Y
	s.next = (s.next + 1) % s.window
	if s.seen < s.window {
		s.seen++
	}
}

// Value is max minus min of the centroid Y over the ticks in the window
// seen so far. It is 0 before any tick.
func (s *Settle) Value() float64 {
	if s.seen == 0 {
		return 0
	}
	lo, hi := s.ys[0], s.ys[0]
	for _, y := range s.ys[1:s.seen] {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	return hi - lo
}

func (s *Settle) Reset() {
	for i := range s.ys {
		s.ys[i] = 0
	}
	s.next = 0
	s.seen = 0
}
