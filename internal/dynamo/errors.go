package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a NaN or Inf leaked into node positions or velocities.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration that cannot produce ticks.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")

	// ErrNoBody indicates a simulator constructed without a body.
	ErrNoBody = errors.New("dynamo: no body to simulate")
)

// SimError wraps an error with the tick it happened on.
type SimError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
