package physics

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
)

const (
	// GravityY is applied as mass*GravityY along +y (screen down).
	GravityY           = 0.2
	DefaultMass        = 10.0
	DefaultStiffness   = 0.5
	DefaultDamping     = 0.1
	DefaultPressure    = 1.0
	DefaultRestitution = 0.95

	// ForceDamping halves the accumulated force before integration.
	ForceDamping = 0.5

	// Drag input: minimum pull magnitude and its scale.
	DragMinMagnitude = 10.0
	DragScale        = 0.005

	// MaxPressure caps the per-spring pressure magnitude and is also the
	// substitute when the volume is degenerate.
	MaxPressure = 100.0

	MinNodes = 3
)

// Node is a point mass on the ring.
type Node struct {
	Position r2.Point
	Velocity r2.Point
	Force    r2.Point
}

// Spring joins nodes A and B. RestLength never changes after construction.
type Spring struct {
	A, B       int
	RestLength float64
	Normal     r2.Point
}

// BodyConfig is fixed for the lifetime of a body.
type BodyConfig struct {
	Gravity        bool
	SpringConstant float64
	SpringDamping  float64
	Pressure       float64
	Restitution    float64
	Mass           float64

	// SkipFirstSpringVolume leaves spring 0 out of the enclosed-volume sum.
	// The default full loop treats every spring alike.
	SkipFirstSpringVolume bool
}

func DefaultBodyConfig() BodyConfig {
	return BodyConfig{
		Gravity:        true,
		SpringConstant: DefaultStiffness,
		SpringDamping:  DefaultDamping,
		Pressure:       DefaultPressure,
		Restitution:    DefaultRestitution,
		Mass:           DefaultMass,
	}
}

// SoftBody is a closed ring of N nodes and N springs.
type SoftBody struct {
	nodes   []Node
	springs []Spring
	cfg     BodyConfig

	lastWall     Wall
	newCollision bool

	centroid r2.Point
	volume   float64
	dists    []float64
}

// NewRing places nodeCount nodes evenly on a circle around origin and joins
// each to the next, closing the loop from the last node back to the first.
func NewRing(origin r2.Point, radius float64, nodeCount int, cfg BodyConfig) (*SoftBody, error) {
	if nodeCount < MinNodes {
		return nil, ErrTooFewNodes
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, ErrInvalidRadius
	}
	if !(cfg.Mass > 0) {
		return nil, ErrInvalidMass
	}

	b := &SoftBody{
		nodes:   make([]Node, nodeCount),
		springs: make([]Spring, nodeCount),
		cfg:     cfg,
		dists:   make([]float64, nodeCount),
	}

	n := float64(nodeCount)
	for i := range b.nodes {
		angle := float64(i+1) * 2 * math.Pi / n
		b.nodes[i].Position = r2.Point{
			X: origin.X + radius*math.Sin(angle),
			Y: origin.Y + radius*math.Cos(angle),
		}
	}

	for i := range b.springs {
		j := (i + 1) % nodeCount
		b.springs[i] = Spring{
			A:          i,
			B:          j,
			RestLength: b.nodes[i].Position.Sub(b.nodes[j].Position).Norm(),
		}
	}

	b.centroid = b.meanPosition()
	return b, nil
}

func (b *SoftBody) Config() BodyConfig  { return b.cfg }
func (b *SoftBody) Len() int            { return len(b.nodes) }
func (b *SoftBody) Node(i int) Node     { return b.nodes[i] }
func (b *SoftBody) Spring(i int) Spring { return b.springs[i] }

func (b *SoftBody) Springs() []Spring {
	out := make([]Spring, len(b.springs))
	copy(out, b.springs)
	return out
}

// Positions returns node positions in ring order, ready to draw as a closed outline.
func (b *SoftBody) Positions() []r2.Point {
	out := make([]r2.Point, len(b.nodes))
	for i := range b.nodes {
		out[i] = b.nodes[i].Position
	}
	return out
}

// Centroid is the mean node position as of the last Step (or construction).
func (b *SoftBody) Centroid() r2.Point { return b.centroid }

// Volume is the enclosed-area estimate computed by the last Step.
func (b *SoftBody) Volume() float64 { return b.volume }

func (b *SoftBody) LastWall() Wall { return b.lastWall }

// NewCollision peeks at the new-wall edge without consuming it.
func (b *SoftBody) NewCollision() bool { return b.newCollision }

// TakeCollision consumes the new-wall edge. The flag stays raised until taken.
func (b *SoftBody) TakeCollision() (Wall, bool) {
	fresh := b.newCollision
	b.newCollision = false
	return b.lastWall, fresh
}

// Collided implements dynamo.Body.
func (b *SoftBody) Collided() (string, bool) {
	w, fresh := b.TakeCollision()
	return w.String(), fresh
}

// State flattens the body into x, y, vx, vy per node.
func (b *SoftBody) State() dynamo.State {
	s := make(dynamo.State, 0, len(b.nodes)*4)
	for _, n := range b.nodes {
		s = append(s, n.Position.X, n.Position.Y, n.Velocity.X, n.Velocity.Y)
	}
	return s
}

// Valid reports whether every position and velocity is finite.
func (b *SoftBody) Valid() bool {
	return b.State().IsValid()
}

// KineticEnergy sums 1/2 m v^2 over all nodes.
func (b *SoftBody) KineticEnergy() float64 {
	e := 0.0
	for _, n := range b.nodes {
		e += 0.5 * b.cfg.Mass * n.Velocity.Dot(n.Velocity)
	}
	return e
}

func (b *SoftBody) meanPosition() r2.Point {
	var sum r2.Point
	for _, n := range b.nodes {
		sum = sum.Add(n.Position)
	}
	return sum.Mul(1 / float64(len(b.nodes)))
}

var _ dynamo.Body = (*SoftBody)(nil)
