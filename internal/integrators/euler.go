package integrators

type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(acc Accel, s State, dt float64) State {
	return State{
		R: add(s.R, s.V.Scale(dt)),
		V: add(s.V, acc(s.R).Scale(dt)),
	}
}
