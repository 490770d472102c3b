// Package dynamo provides the tick-driven simulation primitives that sit
// between a soft body and whatever drives it.
//
// The package defines the signals a body consumes once per tick and the
// loop that delivers them:
//
//   - [Drag]: pointer drag signal (active flag + target point)
//   - [Bounds]: the rectangular boundary for the current tick
//   - [Body]: anything that can be advanced by one tick
//   - [Simulator]: orchestrates a headless run with metrics and observers
//   - [Ensemble]: runs independent bodies in parallel
//
// # Example
//
//	body, _ := physics.NewRing(r2.Point{X: 100, Y: 100}, 50, 8, physics.DefaultBodyConfig())
//	s := dynamo.New(body, dynamo.FixedViewport{Width: 400, Height: 400}, nil)
//	result, _ := s.Run(ctx, dynamo.DefaultConfig())
//
// # Tick Contract
//
// A tick is atomic: the pointer and viewport are polled exactly once, the
// body is advanced with a single dt, and only then are metrics and
// observers handed the quiescent state. Cancellation is checked between
// ticks, never inside one.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Bodies share no state, so
// separate bodies may be stepped from separate goroutines; [Ensemble]
// does exactly that.
package dynamo
