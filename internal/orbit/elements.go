package orbit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Elements is a classical orbital element set. Angles are radians in [0, 2π).
type Elements struct {
	SemimajorAxis float64 // km
	Eccentricity  float64
	Inclination   float64
	RAAN          float64 // right ascension of the ascending node
	ArgPeriapsis  float64
	MeanAnomaly   float64 // at the data epoch; propagation starts at periapsis
	Mass          float64 // kg
}

// NewElements validates and wraps an element set given in radians.
func NewElements(a, e, incl, raan, argp, meanAnomaly, mass float64) (Elements, error) {
	el := Elements{
		SemimajorAxis: a,
		Eccentricity:  e,
		Inclination:   Wrap(incl),
		RAAN:          Wrap(raan),
		ArgPeriapsis:  Wrap(argp),
		MeanAnomaly:   Wrap(meanAnomaly),
		Mass:          mass,
	}
	if err := el.Validate(); err != nil {
		return Elements{}, err
	}
	return el, nil
}

// ElementsFromLongitudes builds an element set from the longitude form used by
// ephemeris tables (all angles in degrees). The argument of periapsis is
// ϖ − Ω and the mean anomaly is L − ϖ.
func ElementsFromLongitudes(a, e, inclDeg, meanLongDeg, longPeriDeg, longNodeDeg, mass float64) (Elements, error) {
	argp := longPeriDeg - longNodeDeg
	meanAnomaly := meanLongDeg - longPeriDeg
	return NewElements(a, e, Deg2Rad(inclDeg), Deg2Rad(longNodeDeg), Deg2Rad(argp), Deg2Rad(meanAnomaly), mass)
}

// Validate checks the invariants of a bound orbit.
func (el Elements) Validate() error {
	for _, v := range []float64{el.SemimajorAxis, el.Eccentricity, el.Inclination, el.RAAN, el.ArgPeriapsis, el.MeanAnomaly, el.Mass} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("non-finite element")
		}
	}
	if el.SemimajorAxis <= 0 {
		return invalidf("semimajor axis must be positive, got %g", el.SemimajorAxis)
	}
	if el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return invalidf("eccentricity must be in [0, 1), got %g", el.Eccentricity)
	}
	if el.Mass <= 0 {
		return invalidf("mass must be positive, got %g", el.Mass)
	}
	return nil
}

// Derived holds the constants of an orbit and its current anomalies.
// Everything but the anomalies and Iterations is fixed by Initialize.
type Derived struct {
	Mu              float64 // gravitational parameter
	AngularMomentum float64 // km^2/s
	Periapsis       float64 // km
	Apoapsis        float64 // km
	Period          float64 // s
	Step            float64 // s, Period / SamplesPerOrbit
	Rotation        *mat.Dense

	MeanAnomaly      float64
	EccentricAnomaly float64
	TrueAnomaly      float64
	Iterations       int
}

func (d Derived) clone() Derived {
	if d.Rotation != nil {
		d.Rotation = mat.DenseCopyOf(d.Rotation)
	}
	return d
}
