package orbit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Metric summarizes a body's trajectory one sample at a time.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer is notified of every propagated sample and every failed body.
type Observer interface {
	OnSample(s Sample)
	OnFailure(body string, err error)
}

// MetricFactory builds the metrics for one initialized body.
type MetricFactory func(b *Body) []Metric

// RunOptions controls System.Run.
type RunOptions struct {
	Orbits    int // orbits per body, default 1
	Workers   int // bodies propagated concurrently, default 1
	Observers []Observer
	Metrics   MetricFactory
}

// BodyResult is the outcome of a run for one body.
type BodyResult struct {
	Samples int
	Metrics map[string]float64
}

// Result is the outcome of System.Run keyed by body path.
type Result struct {
	Bodies map[string]BodyResult
}

type Option func(*System)

// WithLogger sets the logger used during runs.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) { s.logger = l }
}

// System owns the top-level bodies and drives their propagation.
type System struct {
	bodies map[string]*Body
	count  int
	logger *slog.Logger
}

func NewSystem(opts ...Option) *System {
	s := &System{
		bodies: make(map[string]*Body),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a top-level body together with its moons.
func (s *System) Add(b *Body) error {
	if b.parent != nil {
		return fmt.Errorf("%w: %s is owned by %s", ErrInvalidElements, b.name, b.parent.name)
	}
	if _, ok := s.bodies[b.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, b.name)
	}
	b.kind = Planet
	s.bodies[b.name] = b
	s.count++
	return nil
}

// Count is the number of top-level bodies.
func (s *System) Count() int { return s.count }

// Names returns the top-level body names in sorted order.
func (s *System) Names() []string {
	names := make([]string, 0, len(s.bodies))
	for name := range s.bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Body looks a body up by path: "Earth" or "Earth/Moon".
func (s *System) Body(path string) (*Body, bool) {
	planet, moon, hasMoon := strings.Cut(path, "/")
	b, ok := s.bodies[planet]
	if !ok || !hasMoon {
		return b, ok
	}
	return b.Moon(moon)
}

// Walk visits every planet in name order, each followed by its moons.
func (s *System) Walk(fn func(b *Body) error) error {
	for _, name := range s.Names() {
		planet := s.bodies[name]
		if err := fn(planet); err != nil {
			return err
		}
		for _, m := range planet.Moons() {
			if err := fn(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bodies returns every body in Walk order.
func (s *System) Bodies() []*Body {
	out := make([]*Body, 0, s.count)
	_ = s.Walk(func(b *Body) error {
		out = append(out, b)
		return nil
	})
	return out
}

// InitializeAll initializes every moon against its parent, then the parent
// against the central mass.
func (s *System) InitializeAll() error {
	for _, name := range s.Names() {
		planet := s.bodies[name]
		for _, m := range planet.Moons() {
			if err := m.Initialize(planet); err != nil {
				return err
			}
		}
		if err := planet.Initialize(nil); err != nil {
			return err
		}
	}
	return nil
}

// PropagateOrbits drives b through the given number of orbits at its own
// step. Sample k is taken at t = k·Step, so each orbit adds SamplesPerOrbit
// samples and the last one falls at t = orbits·Period.
func (s *System) PropagateOrbits(b *Body, orbits int) error {
	_, err := s.propagate(context.Background(), b, orbits, nil, nil)
	return err
}

func (s *System) propagate(ctx context.Context, b *Body, orbits int, observers []Observer, metrics []Metric) (int, error) {
	if !b.initialized {
		return 0, &BodyError{Body: b.Path(), Wrapped: ErrNotInitialized}
	}
	step := b.derived.Step
	n := orbits * SamplesPerOrbit
	for k := 1; k <= n; k++ {
		if k%SamplesPerOrbit == 0 {
			select {
			case <-ctx.Done():
				return k - 1, ctx.Err()
			default:
			}
		}
		sample, err := b.Propagate(float64(k) * step)
		if err != nil {
			return k - 1, err
		}
		for _, m := range metrics {
			m.Observe(sample)
		}
		for _, o := range observers {
			o.OnSample(sample)
		}
	}
	return n, nil
}

// Run propagates every initialized body, moons included, for opts.Orbits
// orbits. Bodies are independent, so up to opts.Workers of them run at once.
func (s *System) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Orbits <= 0 {
		opts.Orbits = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	bodies := s.Bodies()
	result := &Result{Bodies: make(map[string]BodyResult, len(bodies))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, b := range bodies {
		g.Go(func() error {
			var metrics []Metric
			if opts.Metrics != nil {
				metrics = opts.Metrics(b)
			}
			for _, m := range metrics {
				m.Reset()
				m.Observe(firstSample(b))
			}

			n, err := s.propagate(gctx, b, opts.Orbits, opts.Observers, metrics)
			if err != nil {
				for _, o := range opts.Observers {
					o.OnFailure(b.Path(), err)
				}
				s.logger.Warn("propagation failed", "body", b.Path(), "samples", n, "error", err)
				return err
			}

			br := BodyResult{Samples: b.Len(), Metrics: make(map[string]float64, len(metrics))}
			for _, m := range metrics {
				br.Metrics[m.Name()] = m.Value()
			}

			mu.Lock()
			result.Bodies[b.Path()] = br
			mu.Unlock()

			s.logger.Debug("body propagated", "body", b.Path(), "samples", br.Samples, "period_s", b.derived.Period)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func firstSample(b *Body) Sample {
	if b.Len() == 0 {
		return Sample{Body: b.Path()}
	}
	return Sample{
		Body:        b.Path(),
		Time:        b.Times[0],
		Position:    b.Positions[0],
		Velocity:    b.Velocities[0],
		TrueAnomaly: 0,
	}
}
