package metrics

import (
	"github.com/san-kum/orbsim/internal/orbit"
)

// RadiusEnvelope is the fraction of samples whose distance lies within
// [periapsis, apoapsis], widened by a relative tolerance.
type RadiusEnvelope struct {
	name       string
	lo, hi     float64
	violations int
	samples    int
}

func NewRadiusEnvelope(periapsis, apoapsis, tolerance float64) *RadiusEnvelope {
	return &RadiusEnvelope{
		name: "radius_envelope",
		lo:   periapsis * (1 - tolerance),
		hi:   apoapsis * (1 + tolerance),
	}
}

func (r *RadiusEnvelope) Name() string {
	return r.name
}

func (r *RadiusEnvelope) Observe(s orbit.Sample) {
	r.samples++
	if d := s.Position.Norm(); d < r.lo || d > r.hi {
		r.violations++
	}
}

func (r *RadiusEnvelope) Value() float64 {
	if r.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(r.violations)/float64(r.samples)
}

func (r *RadiusEnvelope) Reset() {
	r.violations = 0
	r.samples = 0
}
