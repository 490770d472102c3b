package physics

import "errors"

var (
	// ErrTooFewNodes indicates a ring with fewer than three nodes.
	ErrTooFewNodes = errors.New("physics: a ring needs at least 3 nodes")

	// ErrInvalidRadius indicates a radius that would place nodes on top of each other.
	ErrInvalidRadius = errors.New("physics: radius must be positive and finite")

	// ErrInvalidMass indicates a non-positive node mass.
	ErrInvalidMass = errors.New("physics: node mass must be positive")
)
