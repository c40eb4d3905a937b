// Package optim explores the numerical behaviour of the Kepler solver over
// a grid of eccentricities and mean anomalies.
package optim

import (
	"context"
	"errors"
	"math"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"

	"github.com/san-kum/orbsim/internal/orbit"
)

// SweepReport summarizes a solver sweep.
type SweepReport struct {
	Points      int
	Failures    int
	MaxIters    int
	WorstE      float64
	WorstM      float64
	MeanIters   float64
	MaxResidual float64 // |E - e sin E - M|, radians
	MaxMeeus    float64 // largest difference from the meeus solution, radians
}

// SweepSolver runs orbit.SolveKepler from orbit.InitialGuess at every
// combination of eccentricities and mean anomalies.
func SweepSolver(ctx context.Context, eccentricities, anomalies []float64) (*SweepReport, error) {
	rep := &SweepReport{}
	total := 0

	g := NewGridSearch([]string{"e", "M"}, [][]float64{eccentricities, anomalies})
	g.Maximize = true
	best, iters, n, err := g.Search(ctx, func(p map[string]float64) (float64, error) {
		e, M := p["e"], p["M"]
		E, it, err := orbit.SolveKepler(M, e, orbit.InitialGuess(M, e))
		if err != nil {
			var div *orbit.DivergenceError
			if errors.As(err, &div) {
				rep.Failures++
			}
			return 0, err
		}
		total += it
		rep.MaxResidual = math.Max(rep.MaxResidual, math.Abs(angleDiff(E-e*math.Sin(E), M)))
		ref := kepler.Kepler3(e, unit.Angle(M)).Rad()
		rep.MaxMeeus = math.Max(rep.MaxMeeus, math.Abs(angleDiff(E, ref)))
		return float64(it), nil
	})
	rep.Points = n
	if err != nil {
		return rep, err
	}
	rep.MaxIters = int(iters)
	rep.WorstE, rep.WorstM = best["e"], best["M"]
	rep.MeanIters = float64(total) / float64(n)
	return rep, nil
}

func angleDiff(a, b float64) float64 {
	return math.Remainder(a-b, 2*math.Pi)
}
