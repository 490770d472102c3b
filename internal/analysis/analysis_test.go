package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
)

func TestDominantFrequency(t *testing.T) {
	const (
		n    = 256
		dt   = 0.1
		freq = 0.5
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = 100 + 3*math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	got := DominantFrequency(data, dt)
	resolution := 1 / (n * dt)
	if math.Abs(got-freq) > resolution {
		t.Errorf("expected frequency near %f, got %f", freq, got)
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 42
	}
	if f := DominantFrequency(data, 0.1); f != 0 {
		t.Errorf("flat series should have no dominant frequency, got %f", f)
	}
	if f := DominantFrequency([]float64{1}, 0.1); f != 0 {
		t.Errorf("single sample should give 0, got %f", f)
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	// not a power of two
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 50 {
		t.Errorf("expected 50 bins, got %d", len(ps))
	}
}

func TestPhasePortrait(t *testing.T) {
	samples := []dynamo.Sample{
		{Time: 0, Centroid: r2.Point{Y: 10}},
		{Time: 1, Centroid: r2.Point{Y: 12}},
		{Time: 2, Centroid: r2.Point{Y: 11}},
	}

	p := NewPhasePortrait(samples)
	if p == nil || len(p.Points) != 2 {
		t.Fatalf("expected 2 points, got %+v", p)
	}
	if p.Points[0] != (PhasePoint{X: 12, Y: 2}) {
		t.Errorf("unexpected first point %+v", p.Points[0])
	}
	if p.Points[1] != (PhasePoint{X: 11, Y: -1}) {
		t.Errorf("unexpected second point %+v", p.Points[1])
	}

	art := p.ToASCII(20, 10)
	if strings.Count(art, "\n") != 10 {
		t.Errorf("expected 10 rows, got %q", art)
	}
	if !strings.Contains(art, "•") {
		t.Error("expected plotted points")
	}

	if NewPhasePortrait(samples[:1]) != nil {
		t.Error("expected nil portrait for a single sample")
	}
}

func TestSweepSettlesOnFloor(t *testing.T) {
	bounds := dynamo.Bounds{Width: 400, Height: 400}
	build := func(mass float64) (dynamo.Body, error) {
		cfg := physics.DefaultBodyConfig()
		cfg.Mass = mass
		return physics.NewRing(r2.Point{X: 200, Y: 300}, 20, 8, cfg)
	}

	points, err := Sweep(build, 5, 15, 3, bounds, 0.1, 200, 50)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Param != 5 || points[2].Param != 15 {
		t.Errorf("unexpected parameter range %f..%f", points[0].Param, points[2].Param)
	}
	for _, p := range points {
		if len(p.Values) == 0 {
			t.Errorf("param %f recorded no heights", p.Param)
		}
		for _, y := range p.Values {
			if y < 0 || y > bounds.Height {
				t.Errorf("param %f: centroid %f left the box", p.Param, y)
			}
		}
	}

	if art := SweepToASCII(points, 30, 8); !strings.Contains(art, "•") {
		t.Error("expected sweep plot to contain points")
	}
}

func TestSweepPropagatesBuildErrors(t *testing.T) {
	build := func(n float64) (dynamo.Body, error) {
		return physics.NewRing(r2.Point{}, 10, int(n), physics.DefaultBodyConfig())
	}
	if _, err := Sweep(build, 1, 2, 2, dynamo.Bounds{Width: 1, Height: 1}, 0.1, 1, 1); err == nil {
		t.Error("expected error for a two-node ring")
	}
}
