package optim

import (
	"context"
	"errors"
	"maps"
	"math"
)

// Objective scores one point of the grid. Points whose evaluation fails are
// skipped.
type Objective func(params map[string]float64) (float64, error)

// GridSearch evaluates an objective at every combination of parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize selects the largest score instead of the smallest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

var ErrNoPoints = errors.New("optim: no grid point could be evaluated")

// Search returns the best point, its score and the number of points that
// evaluated successfully.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, int, error) {
	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	evaluated := 0

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, func(params map[string]float64, val float64) {
		evaluated++
		if bestParams == nil || g.better(val, best) {
			best = val
			bestParams = maps.Clone(params)
		}
	})
	if err != nil {
		return bestParams, best, evaluated, err
	}
	if bestParams == nil {
		return nil, best, 0, ErrNoPoints
	}
	return bestParams, best, evaluated, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.Maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	visit func(map[string]float64, float64),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, err := objective(current)
		if err != nil {
			return nil
		}
		visit(current, val)
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, objective, visit); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
