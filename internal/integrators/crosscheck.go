package integrators

import (
	"errors"
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

var ErrUnbound = errors.New("integrators: state is not on a bound orbit")

// Report compares a numerically integrated orbit with its starting state.
type Report struct {
	Integrator string
	Steps      int
	Period     float64 // geometric period 2π sqrt(a³/μ) of the state
	// Closure is |r(T) - r(0)| / |r(0)|.
	Closure     float64
	EnergyDrift float64
	MinRadius   float64
	MaxRadius   float64
}

// CrossCheck integrates the state (r0, v0) for one geometric period in the
// units of r0, v0 and mu, and reports how far it lands from where it began.
func CrossCheck(integ Integrator, r0, v0 orbit.Vec3, mu float64, steps int) (*Report, error) {
	if steps <= 0 {
		steps = orbit.SamplesPerOrbit
	}
	s := State{R: r0, V: v0}
	r := r0.Norm()
	e0 := Energy(s, mu)
	if !(mu > 0) || r == 0 || !(e0 < 0) {
		return nil, ErrUnbound
	}

	a := -mu / (2 * e0)
	period := 2 * math.Pi * math.Sqrt(a*a*a/mu)
	dt := period / float64(steps)
	acc := TwoBody(mu)

	rep := &Report{
		Integrator: integ.Name(),
		Steps:      steps,
		Period:     period,
		MinRadius:  r,
		MaxRadius:  r,
	}
	for i := 0; i < steps; i++ {
		s = integ.Step(acc, s, dt)
		if !finite(s) {
			return nil, ErrUnbound
		}
		d := s.R.Norm()
		rep.MinRadius = math.Min(rep.MinRadius, d)
		rep.MaxRadius = math.Max(rep.MaxRadius, d)
	}

	rep.Closure = s.R.Sub(r0).Norm() / r
	rep.EnergyDrift = math.Abs((Energy(s, mu) - e0) / e0)
	return rep, nil
}
