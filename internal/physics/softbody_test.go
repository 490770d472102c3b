package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

// quietConfig switches off every force so tests can script node motion.
func quietConfig() BodyConfig {
	return BodyConfig{Mass: DefaultMass, Restitution: DefaultRestitution}
}

func mustRing(t *testing.T, origin r2.Point, radius float64, n int, cfg BodyConfig) *SoftBody {
	t.Helper()
	b, err := NewRing(origin, radius, n, cfg)
	if err != nil {
		t.Fatalf("NewRing(%v, %v, %d) failed: %v", origin, radius, n, err)
	}
	return b
}

func TestNewRingTopology(t *testing.T) {
	origin := r2.Point{X: 100, Y: 100}

	for _, n := range []int{3, 4, 8, 20, 64} {
		b := mustRing(t, origin, 50, n, DefaultBodyConfig())

		if b.Len() != n {
			t.Errorf("n=%d: expected %d nodes, got %d", n, n, b.Len())
		}
		springs := b.Springs()
		if len(springs) != n {
			t.Fatalf("n=%d: expected %d springs, got %d", n, n, len(springs))
		}

		for k, s := range springs {
			if s.A != k || s.B != (k+1)%n {
				t.Errorf("n=%d: spring %d connects %d->%d, want %d->%d", n, k, s.A, s.B, k, (k+1)%n)
			}
			want := b.Node(s.A).Position.Sub(b.Node(s.B).Position).Norm()
			if s.RestLength != want {
				t.Errorf("n=%d: spring %d rest length %v, want %v", n, k, s.RestLength, want)
			}
			if s.RestLength <= 0 {
				t.Errorf("n=%d: spring %d has non-positive rest length", n, k)
			}
		}

		for i := 0; i < n; i++ {
			r := b.Node(i).Position.Sub(origin).Norm()
			if math.Abs(r-50) > 1e-9 {
				t.Errorf("n=%d: node %d at radius %v, want 50", n, i, r)
			}
		}
	}
}

func TestNewRingPlacement(t *testing.T) {
	b := mustRing(t, r2.Point{}, 10, 4, DefaultBodyConfig())

	want := []r2.Point{{X: 10, Y: 0}, {X: 0, Y: -10}, {X: -10, Y: 0}, {X: 0, Y: 10}}
	for i, w := range want {
		got := b.Node(i).Position
		if got.Sub(w).Norm() > 1e-9 {
			t.Errorf("node %d at %v, want %v", i, got, w)
		}
	}
}

func TestNewRingRejects(t *testing.T) {
	cfg := DefaultBodyConfig()
	noMass := cfg
	noMass.Mass = 0

	tests := []struct {
		name   string
		radius float64
		n      int
		cfg    BodyConfig
		want   error
	}{
		{"zero nodes", 50, 0, cfg, ErrTooFewNodes},
		{"two nodes", 50, 2, cfg, ErrTooFewNodes},
		{"negative nodes", 50, -3, cfg, ErrTooFewNodes},
		{"zero radius", 0, 8, cfg, ErrInvalidRadius},
		{"negative radius", -5, 8, cfg, ErrInvalidRadius},
		{"nan radius", math.NaN(), 8, cfg, ErrInvalidRadius},
		{"inf radius", math.Inf(1), 8, cfg, ErrInvalidRadius},
		{"zero mass", 50, 8, noMass, ErrInvalidMass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewRing(r2.Point{}, tt.radius, tt.n, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if b != nil {
				t.Error("expected nil body on error")
			}
		})
	}
}

func TestRestLengthRoundTrip(t *testing.T) {
	cfg := DefaultBodyConfig()
	cfg.Gravity = false
	cfg.Pressure = 0

	b := mustRing(t, r2.Point{X: 100, Y: 100}, 50, 12, cfg)
	b.Step(0.01, noDrag)

	for i := 0; i < b.Len(); i++ {
		if f := b.Node(i).Force.Norm(); f > 1e-9 {
			t.Errorf("node %d: expected zero net force at rest length, got %v", i, f)
		}
	}
}

func TestAtRestNoMotion(t *testing.T) {
	cfg := DefaultBodyConfig()
	cfg.Gravity = false
	cfg.Pressure = 0

	b := mustRing(t, r2.Point{X: 200, Y: 200}, 50, 8, cfg)
	before := b.Positions()

	b.Advance(0.01, noDrag, box400)

	for i, p := range b.Positions() {
		if p.Sub(before[i]).Norm() > 1e-12 {
			t.Errorf("node %d moved from %v to %v", i, before[i], p)
		}
	}
}

func TestStateLayout(t *testing.T) {
	b := mustRing(t, r2.Point{X: 100, Y: 100}, 20, 5, DefaultBodyConfig())
	b.nodes[2].Velocity = r2.Point{X: 3, Y: -4}

	s := b.State()
	if len(s) != 5*4 {
		t.Fatalf("expected state of length 20, got %d", len(s))
	}
	if s[2*4+2] != 3 || s[2*4+3] != -4 {
		t.Errorf("velocity of node 2 not at offsets 10,11: %v", s[8:12])
	}

	pos := s.Positions()
	for i, p := range b.Positions() {
		if pos[i] != p {
			t.Errorf("node %d: state position %v, body position %v", i, pos[i], p)
		}
	}

	if !b.Valid() {
		t.Error("freshly built body should be valid")
	}
	b.nodes[0].Position.X = math.NaN()
	if b.Valid() {
		t.Error("body with NaN position should be invalid")
	}
}

func TestCentroid(t *testing.T) {
	origin := r2.Point{X: 37, Y: -12}
	b := mustRing(t, origin, 15, 9, DefaultBodyConfig())

	if b.Centroid().Sub(origin).Norm() > 1e-9 {
		t.Errorf("centroid %v, want %v", b.Centroid(), origin)
	}
}

func TestWallString(t *testing.T) {
	for _, w := range []Wall{WallNone, WallTop, WallBottom, WallLeft, WallRight} {
		if got := ParseWall(w.String()); got != w {
			t.Errorf("ParseWall(%q) = %v, want %v", w.String(), got, w)
		}
	}
	if ParseWall("ceiling") != WallNone {
		t.Error("unknown wall name should parse to none")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	b := mustRing(t, r2.Point{X: 100, Y: 100}, 20, 4, DefaultBodyConfig())
	before := b.Node(0).Position

	n := b.Node(0)
	n.Position = r2.Point{X: -1, Y: -1}
	b.Positions()[0] = r2.Point{X: -2, Y: -2}
	b.Springs()[0].RestLength = 0

	if got := b.Node(0).Position; got != before {
		t.Errorf("node 0 moved through a copy: %v", got)
	}
	if b.Spring(0).RestLength == 0 {
		t.Error("rest length changed through a copy")
	}
}
