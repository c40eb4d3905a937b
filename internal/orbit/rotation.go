package orbit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RotX is the active rotation by angle x about the first axis.
func RotX(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// RotZ is the active rotation by angle x about the third axis.
func RotZ(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// PerifocalToReference returns Q = Rz(Ω)·Rx(i)·Rz(ω), which maps perifocal
// vectors into the reference frame when applied to a column vector.
func PerifocalToReference(raan, incl, argp float64) *mat.Dense {
	var ri, q mat.Dense
	ri.Mul(RotX(incl), RotZ(argp))
	q.Mul(RotZ(raan), &ri)
	return &q
}

// Rotate applies a 3x3 matrix to v. There is no dimension check.
func Rotate(m mat.Matrix, v Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, v[:]))
	return Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}
