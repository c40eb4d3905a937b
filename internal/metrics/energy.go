package metrics

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// EnergyDrift tracks the largest relative change in specific orbital energy
// v²/2 − μ/r from the first observed sample.
type EnergyDrift struct {
	name          string
	mu            float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(mu float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		mu:   mu,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s orbit.Sample) {
	r := s.Position.Norm()
	if r == 0 {
		return
	}
	v := s.Velocity.Norm()
	energy := v*v/2 - e.mu/r

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Energy is the most recently observed specific energy.
func (e *EnergyDrift) Energy() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
