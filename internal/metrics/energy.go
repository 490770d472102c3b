package metrics

import (
	"github.com/san-kum/blobsim/internal/dynamo"
)

// KineticEnergy averages the body's total kinetic energy over every observed tick.
type KineticEnergy struct {
	name    string
	mass    float64
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy(mass float64) *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		mass: mass,
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s dynamo.Sample) {
	if len(s.State) < 4 {
		return
	}
	ke := 0.0
	for _, v := range s.State.Velocities() {
		ke += 0.5 * e.mass * v.Dot(v)
	}
	e.last = ke
	e.total += ke
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last is the energy at the most recent observed tick.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}
