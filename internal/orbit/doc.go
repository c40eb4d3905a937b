// Package orbit provides the two-body propagation engine.
//
// The package turns classical orbital elements into state vectors and
// advances them in time by solving Kepler's equation:
//
//   - [Elements]: validated classical element set (angles in wrapped radians)
//   - [Derived]: constants of an orbit plus its current anomalies
//   - [SolveKepler]: bounded Newton-Raphson solve of M = E - e sin E
//   - [Body]: a planet or satellite with its append-only state history
//   - [System]: the body hierarchy, initialization order and propagation runs
//
// # Example
//
//	sys := orbit.NewSystem()
//	_ = sys.Add(earth) // earth owns its moons
//	_ = sys.InitializeAll()
//	res, _ := sys.Run(ctx, orbit.RunOptions{Orbits: 1})
//
// # Frames
//
// Planets are referenced to the central body; satellites are referenced to
// their parent planet. Each body is an independent two-body problem.
//
// # Thread Safety
//
// A Body is not safe for concurrent use. [System.Run] propagates distinct
// bodies in parallel, so observers passed to it must be safe for concurrent use.
package orbit
