package ingest

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Record is one row of an element table. Angles are in degrees and follow the
// JPL approximate-positions layout: longitudes rather than arguments.
type Record struct {
	Name           string            `mapstructure:"name"`
	SemimajorAxis  *float64          `mapstructure:"semi_major_axis_km"`
	Eccentricity   *float64          `mapstructure:"eccentricity"`
	Inclination    *float64          `mapstructure:"inclination_degrees"`
	MeanLongitude  *float64          `mapstructure:"mean_longitude_degrees"`
	LongPerihelion *float64          `mapstructure:"longitude_of_perihelion_degrees"`
	LongNode       *float64          `mapstructure:"longitude_of_the_ascending_node_degrees"`
	Radius         *float64          `mapstructure:"meanradius_km"`
	Mass           *float64          `mapstructure:"mass_kg"`
	Moons          map[string]Record `mapstructure:"moons"`

	// LongPerhelion is the spelling used by older data files.
	LongPerhelion *float64 `mapstructure:"longitude_of_perhelion_degrees"`
}

type field struct {
	key string
	val *float64
}

func (r Record) fields() []field {
	peri := r.LongPerihelion
	if peri == nil {
		peri = r.LongPerhelion
	}
	return []field{
		{"semi_major_axis_km", r.SemimajorAxis},
		{"eccentricity", r.Eccentricity},
		{"inclination_degrees", r.Inclination},
		{"mean_longitude_degrees", r.MeanLongitude},
		{"longitude_of_perihelion_degrees", peri},
		{"longitude_of_the_ascending_node_degrees", r.LongNode},
		{"meanradius_km", r.Radius},
		{"mass_kg", r.Mass},
	}
}

// Elements checks the record and derives the element set: ω = ϖ − Ω and
// M = L − ϖ, converted to wrapped radians.
func (r Record) Elements(file, body string) (orbit.Elements, error) {
	fs := r.fields()
	for _, f := range fs {
		if f.val == nil {
			return orbit.Elements{}, &ConfigError{File: file, Body: body, Field: f.key, Msg: "missing"}
		}
		if math.IsNaN(*f.val) || math.IsInf(*f.val, 0) {
			return orbit.Elements{}, &ConfigError{File: file, Body: body, Field: f.key, Msg: "not a finite number"}
		}
	}
	a, e, incl, meanLong, peri, node, radius, mass := *fs[0].val, *fs[1].val, *fs[2].val, *fs[3].val, *fs[4].val, *fs[5].val, *fs[6].val, *fs[7].val

	switch {
	case a <= 0:
		return orbit.Elements{}, &ConfigError{File: file, Body: body, Field: "semi_major_axis_km", Msg: "must be positive"}
	case e < 0 || e >= 1:
		return orbit.Elements{}, &ConfigError{File: file, Body: body, Field: "eccentricity", Msg: "must be in [0, 1)"}
	case mass <= 0:
		return orbit.Elements{}, &ConfigError{File: file, Body: body, Field: "mass_kg", Msg: "must be positive"}
	case radius < 0:
		return orbit.Elements{}, &ConfigError{File: file, Body: body, Field: "meanradius_km", Msg: "must not be negative"}
	}

	el, err := orbit.ElementsFromLongitudes(a, e, incl, meanLong, peri, node, mass)
	if err != nil {
		return orbit.Elements{}, &ConfigError{File: file, Body: body, Err: err}
	}
	return el, nil
}

// RadiusKm returns the mean radius, zero when absent.
func (r Record) RadiusKm() float64 {
	if r.Radius == nil {
		return 0
	}
	return *r.Radius
}
