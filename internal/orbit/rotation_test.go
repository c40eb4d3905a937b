package orbit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func vecEqual(a, b Vec3, tol float64) bool {
	return floats.EqualApprox(a[:], b[:], tol)
}

func TestRotZ(t *testing.T) {
	got := Rotate(RotZ(math.Pi/2), Vec3{1, 0, 0})
	if !vecEqual(got, Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Rz(π/2)·x = %v, want y", got)
	}
}

func TestRotX(t *testing.T) {
	got := Rotate(RotX(math.Pi/2), Vec3{0, 1, 0})
	if !vecEqual(got, Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Rx(π/2)·y = %v, want z", got)
	}
}

func TestPerifocalToReference_Identity(t *testing.T) {
	q := PerifocalToReference(0, 0, 0)
	if !mat.EqualApprox(q, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-15) {
		t.Errorf("Q(0,0,0) is not identity:\n%v", mat.Formatted(q))
	}
}

func TestPerifocalToReference_Composition(t *testing.T) {
	raan, incl, argp := math.Pi/17, math.Pi/16, math.Pi/15

	var expected, tmp mat.Dense
	tmp.Mul(RotX(incl), RotZ(argp))
	expected.Mul(RotZ(raan), &tmp)

	q := PerifocalToReference(raan, incl, argp)
	if !mat.EqualApprox(q, &expected, 1e-15) {
		t.Fatalf("composition mismatch:\n%v\n%v", mat.Formatted(q), mat.Formatted(&expected))
	}

	var qtq mat.Dense
	qtq.Mul(q.T(), q)
	if !mat.EqualApprox(&qtq, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12) {
		t.Errorf("Q is not orthonormal:\n%v", mat.Formatted(&qtq))
	}
}

func TestPerifocalToReference_NodeLine(t *testing.T) {
	// With ω = 0 the periapsis lies on the line of nodes, which sits at Ω in
	// the reference plane.
	raan := 1.1
	got := Rotate(PerifocalToReference(raan, 0.4, 0), Vec3{1, 0, 0})
	want := Vec3{math.Cos(raan), math.Sin(raan), 0}
	if !vecEqual(got, want, 1e-12) {
		t.Errorf("periapsis direction = %v, want %v", got, want)
	}
}
