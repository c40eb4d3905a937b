package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orbsim/internal/orbit"
)

func circular() (orbit.Vec3, orbit.Vec3) {
	return orbit.Vec3{1, 0, 0}, orbit.Vec3{0, 1, 0}
}

func TestRK4_CircularOrbitCloses(t *testing.T) {
	r0, v0 := circular()
	rep, err := CrossCheck(NewRK4(), r0, v0, 1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rep.Period-2*math.Pi) > 1e-12 {
		t.Errorf("period = %v, want 2π", rep.Period)
	}
	if rep.Closure > 1e-8 {
		t.Errorf("closure %v", rep.Closure)
	}
	if rep.EnergyDrift > 1e-9 {
		t.Errorf("energy drift %v", rep.EnergyDrift)
	}
}

func TestVerlet_BoundedEnergy(t *testing.T) {
	r0, v0 := circular()
	rep, err := CrossCheck(NewVerlet(), r0, v0, 1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if rep.EnergyDrift > 1e-3 {
		t.Errorf("energy drift %v", rep.EnergyDrift)
	}
	if rep.Closure > 1e-2 {
		t.Errorf("closure %v", rep.Closure)
	}
}

func TestEuler_DriftsMoreThanRK4(t *testing.T) {
	r0, v0 := circular()
	euler, err := CrossCheck(NewEuler(), r0, v0, 1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	rk4, err := CrossCheck(NewRK4(), r0, v0, 1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if euler.EnergyDrift <= rk4.EnergyDrift {
		t.Errorf("euler drift %v not above rk4 drift %v", euler.EnergyDrift, rk4.EnergyDrift)
	}
}

func TestCrossCheck_MatchesKeplerEllipse(t *testing.T) {
	el, err := orbit.NewElements(1.5e8, 0.3, 0.2, 1.1, 0.7, 0, 6e24)
	if err != nil {
		t.Fatal(err)
	}
	b, err := orbit.NewBody("Test", orbit.Planet, el, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Initialize(nil); err != nil {
		t.Fatal(err)
	}
	d := b.Derived()

	rep, err := CrossCheck(NewRK4(), b.Positions[0], b.Velocities[0], d.Mu, 4000)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Closure > 1e-6 {
		t.Errorf("closure %v", rep.Closure)
	}
	if math.Abs(rep.MinRadius-d.Periapsis)/d.Periapsis > 1e-7 {
		t.Errorf("min radius %v, periapsis %v", rep.MinRadius, d.Periapsis)
	}
	if math.Abs(rep.MaxRadius-d.Apoapsis)/d.Apoapsis > 1e-4 {
		t.Errorf("max radius %v, apoapsis %v", rep.MaxRadius, d.Apoapsis)
	}
}

func TestCrossCheck_Unbound(t *testing.T) {
	_, err := CrossCheck(NewRK4(), orbit.Vec3{1, 0, 0}, orbit.Vec3{0, 2, 0}, 1, 100)
	if !errors.Is(err, ErrUnbound) {
		t.Errorf("expected ErrUnbound for escape velocity, got %v", err)
	}
	_, err = CrossCheck(NewRK4(), orbit.Vec3{}, orbit.Vec3{0, 1, 0}, 1, 100)
	if !errors.Is(err, ErrUnbound) {
		t.Errorf("expected ErrUnbound at the origin, got %v", err)
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"euler", "rk4", "verlet"} {
		integ, ok := Get(name)
		if !ok || integ.Name() != name {
			t.Errorf("Get(%q) = %v, %v", name, integ, ok)
		}
	}
	if _, ok := Get("rk45"); ok {
		t.Error("unexpected integrator rk45")
	}
}

func BenchmarkRK4(b *testing.B) {
	acc := TwoBody(1)
	s := State{R: orbit.Vec3{1, 0, 0}, V: orbit.Vec3{0, 1, 0}}
	integ := NewRK4()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s = integ.Step(acc, s, 0.001)
	}
}

func BenchmarkVerlet(b *testing.B) {
	acc := TwoBody(1)
	s := State{R: orbit.Vec3{1, 0, 0}, V: orbit.Vec3{0, 1, 0}}
	integ := NewVerlet()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s = integ.Step(acc, s, 0.001)
	}
}
