// Package metrics provides per-body trajectory checks fed by orbit.System.Run.
package metrics

import "github.com/san-kum/orbsim/internal/orbit"

// EnvelopeTolerance is the relative slack allowed outside [rp, ra].
const EnvelopeTolerance = 1e-9

// Default builds the standard metric set for an initialized body.
func Default(b *orbit.Body) []orbit.Metric {
	d := b.Derived()
	return []orbit.Metric{
		NewEnergyDrift(d.Mu),
		NewAngularMomentumDrift(d.AngularMomentum),
		NewRadiusEnvelope(d.Periapsis, d.Apoapsis, EnvelopeTolerance),
		NewKeplerIterations(),
	}
}
