// Package integrators steps a two-body state numerically. It serves as an
// independent reference for the closed-form propagation in package orbit.
package integrators

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// State is a position and velocity in a consistent unit system.
type State struct {
	R, V orbit.Vec3
}

// Accel returns the acceleration at position r.
type Accel func(r orbit.Vec3) orbit.Vec3

type Integrator interface {
	Name() string
	Step(acc Accel, s State, dt float64) State
}

// TwoBody is point-mass gravity about the origin.
func TwoBody(mu float64) Accel {
	return func(r orbit.Vec3) orbit.Vec3 {
		d := r.Norm()
		return r.Scale(-mu / (d * d * d))
	}
}

// Energy is the specific orbital energy v²/2 - μ/r.
func Energy(s State, mu float64) float64 {
	return s.V.Dot(s.V)/2 - mu/s.R.Norm()
}

// Get returns an integrator by name.
func Get(name string) (Integrator, bool) {
	switch name {
	case "euler":
		return NewEuler(), true
	case "rk4":
		return NewRK4(), true
	case "verlet":
		return NewVerlet(), true
	default:
		return nil, false
	}
}

func add(a, b orbit.Vec3) orbit.Vec3 {
	return orbit.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func finite(s State) bool {
	return s.R.IsValid() && s.V.IsValid() && !math.IsInf(s.R.Norm(), 0)
}
