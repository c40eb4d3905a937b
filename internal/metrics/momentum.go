package metrics

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// AngularMomentumDrift is the largest relative deviation of |r × v| from the
// orbit's specific angular momentum h.
type AngularMomentumDrift struct {
	name     string
	h        float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift(h float64) *AngularMomentumDrift {
	return &AngularMomentumDrift{
		name: "angular_momentum_drift",
		h:    h,
	}
}

func (a *AngularMomentumDrift) Name() string {
	return a.name
}

func (a *AngularMomentumDrift) Observe(s orbit.Sample) {
	if a.h == 0 {
		return
	}
	got := s.Position.Cross(s.Velocity).Norm()
	a.maxDrift = math.Max(a.maxDrift, math.Abs(got-a.h)/a.h)
	a.samples++
}

func (a *AngularMomentumDrift) Value() float64 {
	return a.maxDrift
}

func (a *AngularMomentumDrift) Reset() {
	a.maxDrift = 0
	a.samples = 0
}

// KeplerIterations is the mean number of Newton iterations per solve.
type KeplerIterations struct {
	name    string
	sum     int
	samples int
}

func NewKeplerIterations() *KeplerIterations {
	return &KeplerIterations{name: "kepler_iterations"}
}

func (k *KeplerIterations) Name() string { return k.name }

func (k *KeplerIterations) Observe(s orbit.Sample) {
	// The periapsis state is placed directly, not solved.
	if s.Iterations == 0 {
		return
	}
	k.sum += s.Iterations
	k.samples++
}

func (k *KeplerIterations) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return float64(k.sum) / float64(k.samples)
}

func (k *KeplerIterations) Reset() {
	k.sum = 0
	k.samples = 0
}
