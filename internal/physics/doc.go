// Package physics implements a pressurized soft body: a closed ring of
// point masses joined by damped springs and pushed outward by an internal
// pressure derived from an enclosed-area estimate.
//
//   - [SoftBody]: the ring, its springs and its configuration
//   - [SoftBody.Step]: force accumulation (gravity, drag, springs, pressure)
//   - [SoftBody.Integrate]: semi-implicit Euler with boundary bounces
//   - [Wall]: which side of the box was struck most recently
//
// # Tick Order
//
// Step must run strictly before Integrate and both must receive the same
// dt. [SoftBody.Advance] does both:
//
//	body, err := physics.NewRing(r2.Point{X: 100, Y: 100}, 50, 8, physics.DefaultBodyConfig())
//	if err != nil {
//	    return err
//	}
//	body.Advance(0.01, dynamo.Drag{}, dynamo.Bounds{Width: 400, Height: 400})
//	if wall, ok := body.TakeCollision(); ok {
//	    // a different wall than last time was hit
//	}
//
// Numeric edge cases (coincident nodes, zero volume) are handled by local
// substitution; stepping never fails.
package physics
