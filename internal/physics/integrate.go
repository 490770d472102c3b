package physics

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Integrate advances every node with semi-implicit Euler and resolves
// collisions against [0,Width] x [0,Height]. The y displacement is
// corrected before it is committed so a node lands exactly on the wall.
func (b *SoftBody) Integrate(dt float64, bounds dynamo.Bounds) {
	w, h := bounds.Width, bounds.Height
	r := b.cfg.Restitution
	invMass := 1 / b.cfg.Mass

	hit := WallNone

	for i := range b.nodes {
		n := &b.nodes[i]
		n.Force = n.Force.Mul(ForceDamping)

		n.Velocity.X += n.Force.X * invMass * dt
		n.Position.X += n.Velocity.X * dt

		n.Velocity.Y += n.Force.Y * invMass * dt
		dy := n.Velocity.Y * dt

		if n.Position.X > w {
			n.Velocity.X = -n.Velocity.X * r
			hit = WallRight
		} else if n.Position.X < 0 {
			n.Velocity.X = -n.Velocity.X * r
			hit = WallLeft
		}

		if n.Position.Y+dy > h {
			dy = h - n.Position.Y
			n.Velocity.Y = -n.Velocity.Y * r
			hit = WallBottom
		} else if n.Position.Y+dy < 0 {
			dy = -n.Position.Y
			n.Velocity.Y = -n.Velocity.Y * r
			hit = WallTop
		}

		n.Position.Y += dy

		n.Position.X = clamp(n.Position.X, 0, w)
		n.Position.Y = clamp(n.Position.Y, 0, h)
	}

	if hit != WallNone && hit != b.lastWall {
		b.lastWall = hit
		b.newCollision = true
	}

	b.centroid = b.meanPosition()
}

// Advance runs one full tick: Step then Integrate with the same dt.
func (b *SoftBody) Advance(dt float64, drag dynamo.Drag, bounds dynamo.Bounds) {
	b.Step(dt, drag)
	b.Integrate(dt, bounds)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
