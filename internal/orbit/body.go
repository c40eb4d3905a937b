package orbit

import (
	"fmt"
	"math"
	"sort"
)

// Kind classifies a body. It only selects the gravitational reference.
type Kind int

const (
	Planet Kind = iota
	Satellite
)

func (k Kind) String() string {
	switch k {
	case Planet:
		return "planet"
	case Satellite:
		return "satellite"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sample is one propagated state of a body.
type Sample struct {
	Body        string
	Time        float64 // s since periapsis
	Position    Vec3    // km
	Velocity    Vec3    // km/s
	TrueAnomaly float64
	Iterations  int
}

// Body is a node of the two-level body tree. Satellites are owned by their
// planet and orbit it rather than the central mass.
type Body struct {
	name     string
	kind     Kind
	radius   float64
	elements Elements
	derived  Derived
	parent   *Body
	moons    map[string]*Body

	initialized bool

	Positions  []Vec3
	Velocities []Vec3
	Times      []float64
}

// NewBody creates an uninitialized body. The history stays empty until
// Initialize places the body at periapsis.
func NewBody(name string, kind Kind, el Elements, radius float64) (*Body, error) {
	if name == "" {
		return nil, invalidf("body name is empty")
	}
	if err := el.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Body{
		name:     name,
		kind:     kind,
		radius:   radius,
		elements: el,
	}, nil
}

func (b *Body) Name() string       { return b.name }
func (b *Body) Kind() Kind         { return b.kind }
func (b *Body) Radius() float64    { return b.radius }
func (b *Body) Elements() Elements { return b.elements }
func (b *Body) Parent() *Body      { return b.parent }
func (b *Body) Initialized() bool  { return b.initialized }

// Derived returns a copy of the derived quantities.
func (b *Body) Derived() Derived { return b.derived.clone() }

// Path is the body's name qualified by its parent, e.g. "Earth/Moon".
func (b *Body) Path() string {
	if b.parent == nil {
		return b.name
	}
	return b.parent.name + "/" + b.name
}

// AddMoon attaches a satellite to this body. Satellites cannot own moons.
func (b *Body) AddMoon(m *Body) error {
	if b.parent != nil {
		return fmt.Errorf("%w: %s is a satellite and cannot own %s", ErrInvalidElements, b.name, m.name)
	}
	if m.moons != nil {
		return fmt.Errorf("%w: %s owns moons and cannot be a satellite", ErrInvalidElements, m.name)
	}
	if b.moons == nil {
		b.moons = make(map[string]*Body)
	}
	if _, ok := b.moons[m.name]; ok {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateBody, b.name, m.name)
	}
	m.parent = b
	m.kind = Satellite
	b.moons[m.name] = m
	return nil
}

// Moon returns a satellite by name.
func (b *Body) Moon(name string) (*Body, bool) {
	m, ok := b.moons[name]
	return m, ok
}

// Moons returns the satellites sorted by name.
func (b *Body) Moons() []*Body {
	names := make([]string, 0, len(b.moons))
	for name := range b.moons {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Body, len(names))
	for i, name := range names {
		out[i] = b.moons[name]
	}
	return out
}

// Initialize derives the orbit constants and resets the history to the single
// state at periapsis. ref is the gravitational reference; nil means the
// central mass. Calling it again discards the accumulated history.
func (b *Body) Initialize(ref *Body) error {
	el := b.elements
	refMass := CentralMass
	if ref != nil {
		refMass = ref.elements.Mass
	}

	d := Derived{}
	d.Mu = GravitationalConstant * (el.Mass + refMass)
	if !(d.Mu > 0) || math.IsInf(d.Mu, 0) {
		return fmt.Errorf("%s: %w", b.name, invalidf("gravitational parameter must be positive, got %g", d.Mu))
	}

	e := el.Eccentricity
	d.Periapsis = el.SemimajorAxis * (1 - e)
	d.Apoapsis = el.SemimajorAxis * (1 + e)
	d.AngularMomentum = math.Sqrt(d.Mu * d.Periapsis * (1 + e))
	// Semimajor axis in metres against μ as computed: kept for parity with
	// existing period tables.
	d.Period = twoPi * math.Pow(el.SemimajorAxis*1000, 1.5) / math.Sqrt(d.Mu)
	d.Step = d.Period / SamplesPerOrbit
	d.Rotation = PerifocalToReference(el.RAAN, el.Inclination, el.ArgPeriapsis)

	r := Vec3{d.Periapsis, 0, 0}
	v := Vec3{0, d.AngularMomentum / d.Periapsis, 0}

	b.derived = d
	b.Positions = []Vec3{Rotate(d.Rotation, r)}
	b.Velocities = []Vec3{Rotate(d.Rotation, v)}
	b.Times = []float64{0}
	b.initialized = true
	return nil
}

// Propagate appends the state at t seconds after periapsis passage. t is
// absolute, not a delta from the previous call; callers feed it in increasing
// order.
func (b *Body) Propagate(t float64) (Sample, error) {
	if !b.initialized {
		return Sample{}, &BodyError{Body: b.Path(), Time: t, Wrapped: ErrNotInitialized}
	}
	d := &b.derived
	e := b.elements.Eccentricity

	M := Wrap(twoPi / d.Period * t)
	E, iters, err := SolveKepler(M, e, InitialGuess(M, e))
	if err != nil {
		return Sample{}, &BodyError{Body: b.Path(), Time: t, Wrapped: err}
	}
	nu := TrueFromEccentric(E, e)

	sinNu, cosNu := math.Sincos(nu)
	radius := d.AngularMomentum * d.AngularMomentum / d.Mu / (1 + e*cosNu)
	rp := Vec3{radius * cosNu, radius * sinNu, 0}
	vp := Vec3{-sinNu, e + cosNu, 0}.Scale(d.Mu / d.AngularMomentum)

	pos := Rotate(d.Rotation, rp)
	vel := Rotate(d.Rotation, vp)

	d.MeanAnomaly = M
	d.EccentricAnomaly = E
	d.TrueAnomaly = nu
	d.Iterations = iters

	b.Positions = append(b.Positions, pos)
	b.Velocities = append(b.Velocities, vel)
	b.Times = append(b.Times, t)

	return Sample{
		Body:        b.Path(),
		Time:        t,
		Position:    pos,
		Velocity:    vel,
		TrueAnomaly: nu,
		Iterations:  iters,
	}, nil
}

// Len is the number of samples in the history.
func (b *Body) Len() int { return len(b.Positions) }

// EpochOffset is the time since periapsis at the data epoch, M0 / n.
func (b *Body) EpochOffset() float64 {
	if !b.initialized {
		return 0
	}
	return b.elements.MeanAnomaly / twoPi * b.derived.Period
}
