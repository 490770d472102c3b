package physics

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
)

// Step resets and accumulates the force on every node. It must run before
// Integrate for the same tick. Forces do not depend on dt.
func (b *SoftBody) Step(_ float64, drag dynamo.Drag) {
	b.applyGravity()
	b.centroid = b.meanPosition()
	if drag.Active {
		b.applyDrag(drag.Target)
	}
	b.applySprings()
	b.volume = b.enclosedVolume()
	b.applyPressure()
}

func (b *SoftBody) applyGravity() {
	g := r2.Point{}
	if b.cfg.Gravity {
		g.Y = b.cfg.Mass * GravityY
	}
	for i := range b.nodes {
		b.nodes[i].Force = g
	}
}

// applyDrag pushes every node by the same vector toward target, translating
// the body as a group.
func (b *SoftBody) applyDrag(target r2.Point) {
	move := target.Sub(b.centroid)
	mag := math.Max(move.Norm(), DragMinMagnitude)
	push := move.Normalize().Mul(mag * DragScale)

	for i := range b.nodes {
		b.nodes[i].Force = b.nodes[i].Force.Add(push)
	}
}

// applySprings adds damped Hooke forces and refreshes each spring normal.
func (b *SoftBody) applySprings() {
	k, damping := b.cfg.SpringConstant, b.cfg.SpringDamping

	for i := range b.springs {
		s := &b.springs[i]
		p1, p2 := &b.nodes[s.A], &b.nodes[s.B]

		delta := p1.Position.Sub(p2.Position)
		dist := delta.Norm()
		b.dists[i] = dist

		if dist == 0 {
			s.Normal = r2.Point{}
			continue
		}

		relVel := p1.Velocity.Sub(p2.Velocity)
		f := (dist-s.RestLength)*k + relVel.Dot(delta)*damping/dist
		force := delta.Mul(f / dist)

		p1.Force = p1.Force.Sub(force)
		p2.Force = p2.Force.Add(force)

		s.Normal = r2.Point{X: delta.Y / dist, Y: -delta.X / dist}
	}
}

// enclosedVolume is the divergence-theorem area proxy over the ring. It uses
// the distances and normals computed by applySprings in this same step.
func (b *SoftBody) enclosedVolume() float64 {
	start := 0
	if b.cfg.SkipFirstSpringVolume {
		start = 1
	}

	volume := 0.0
	for i := start; i < len(b.springs); i++ {
		s := b.springs[i]
		dx := b.nodes[s.A].Position.X - b.nodes[s.B].Position.X
		volume += 0.5 * math.Abs(dx) * math.Abs(s.Normal.X) * b.dists[i]
	}
	return volume
}

func (b *SoftBody) applyPressure() {
	for i := range b.springs {
		s := b.springs[i]
		mag := pressureMagnitude(b.dists[i], b.cfg.Pressure, b.volume)
		push := s.Normal.Mul(mag)

		b.nodes[s.A].Force = b.nodes[s.A].Force.Add(push)
		b.nodes[s.B].Force = b.nodes[s.B].Force.Add(push)
	}
}

// pressureMagnitude is dist*pressure/volume capped at MaxPressure. A
// degenerate volume yields MaxPressure instead of a non-finite value.
func pressureMagnitude(dist, pressure, volume float64) float64 {
	mag := dist * pressure / volume
	if math.IsNaN(mag) || math.IsInf(mag, 0) {
		mag = MaxPressure
	}
	return math.Min(mag, MaxPressure)
}
