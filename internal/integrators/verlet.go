package integrators

// Verlet is the velocity Verlet scheme. It is symplectic, so energy error
// stays bounded over many orbits.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(acc Accel, s State, dt float64) State {
	a0 := acc(s.R)
	r := add(add(s.R, s.V.Scale(dt)), a0.Scale(0.5*dt*dt))
	a1 := acc(r)
	return State{
		R: r,
		V: add(s.V, add(a0, a1).Scale(0.5*dt)),
	}
}
