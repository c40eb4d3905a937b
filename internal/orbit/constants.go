package orbit

// Process-wide physical and numerical constants.
const (
	// GravitationalConstant in m^3 kg^-1 s^-2.
	GravitationalConstant = 6.6743e-11

	// CentralMass is the mass of the central star in kg, the gravitational
	// reference of every top-level body.
	CentralMass = 1.99e30

	// KeplerTolerance is the absolute convergence tolerance of the Kepler
	// solve, in radians.
	KeplerTolerance = 1e-10

	// MaxKeplerIterations bounds the Newton-Raphson loop.
	MaxKeplerIterations = 100

	// SamplesPerOrbit fixes the propagation step to Period/SamplesPerOrbit.
	SamplesPerOrbit = 1000
)
