package integrators

import "github.com/san-kum/orbsim/internal/orbit"

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(acc Accel, s State, dt float64) State {
	k1r, k1v := s.V, acc(s.R)

	k2r := add(s.V, k1v.Scale(dt/2))
	k2v := acc(add(s.R, k1r.Scale(dt/2)))

	k3r := add(s.V, k2v.Scale(dt/2))
	k3v := acc(add(s.R, k2r.Scale(dt/2)))

	k4r := add(s.V, k3v.Scale(dt))
	k4v := acc(add(s.R, k3r.Scale(dt)))

	dt6 := dt / 6.0
	return State{
		R: add(s.R, weighted(k1r, k2r, k3r, k4r).Scale(dt6)),
		V: add(s.V, weighted(k1v, k2v, k3v, k4v).Scale(dt6)),
	}
}

func weighted(k1, k2, k3, k4 orbit.Vec3) orbit.Vec3 {
	var out orbit.Vec3
	for i := range out {
		out[i] = k1[i] + 2*k2[i] + 2*k3[i] + k4[i]
	}
	return out
}
