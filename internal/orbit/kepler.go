package orbit

import (
	"fmt"
	"math"
)

// InitialGuess returns the starting eccentric anomaly for a Newton solve.
func InitialGuess(meanAnomaly, e float64) float64 {
	if meanAnomaly < math.Pi {
		return meanAnomaly + e/2
	}
	return meanAnomaly - e/2
}

// SolveKepler solves E - e sin E = M for the eccentric anomaly, starting at
// guess. The result is wrapped into [0, 2π). It returns the number of Newton
// iterations performed, and a *DivergenceError if the iterate does not settle
// within MaxKeplerIterations.
func SolveKepler(meanAnomaly, e, guess float64) (float64, int, error) {
	if math.IsNaN(e) || e < 0 || e >= 1 {
		return 0, 0, fmt.Errorf("%w: eccentricity %g outside [0, 1)", ErrInvalidElements, e)
	}

	E := guess
	step := math.Inf(1)
	iters := 0
	for i := 1; i <= MaxKeplerIterations; i++ {
		iters = i
		f := E - e*math.Sin(E) - meanAnomaly
		fp := 1 - e*math.Cos(E)
		next := E - f/fp
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		step = math.Abs(next - E)
		E = next
		if step < KeplerTolerance {
			return Wrap(E), i, nil
		}
	}

	return 0, iters, &DivergenceError{
		MeanAnomaly:  meanAnomaly,
		Eccentricity: e,
		Iterations:   iters,
		LastStep:     step,
	}
}

// TrueFromEccentric converts an eccentric anomaly to a wrapped true anomaly.
func TrueFromEccentric(E, e float64) float64 {
	return Wrap(2 * math.Atan(math.Sqrt((1+e)/(1-e))*math.Tan(E/2)))
}
