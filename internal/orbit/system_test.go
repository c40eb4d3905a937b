package orbit_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbsim/internal/orbit"
)

func mustBody(name string, a, e, incl, mass float64) *orbit.Body {
	GinkgoHelper()
	el, err := orbit.NewElements(a, e, incl, 0.4, 1.2, 0, mass)
	Expect(err).NotTo(HaveOccurred())
	b, err := orbit.NewBody(name, orbit.Planet, el, 1000)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func innerSystem() *orbit.System {
	GinkgoHelper()
	sys := orbit.NewSystem()
	earth := mustBody("Earth", 149598261, 0.0167, 0, 5.97e24)
	Expect(earth.AddMoon(mustBody("Moon", 384400, 0.0549, 0.09, 7.342e22))).To(Succeed())
	Expect(sys.Add(earth)).To(Succeed())
	Expect(sys.Add(mustBody("Mars", 227943822, 0.0934, 0.032, 6.42e23))).To(Succeed())
	Expect(sys.Add(mustBody("Mercury", 57909227, 0.2056, 0.122, 3.3e23))).To(Succeed())
	return sys
}

type recorder struct {
	mu       sync.Mutex
	samples  map[string]int
	failures map[string]error
}

func newRecorder() *recorder {
	return &recorder{samples: map[string]int{}, failures: map[string]error{}}
}

func (r *recorder) OnSample(s orbit.Sample) {
	r.mu.Lock()
	r.samples[s.Body]++
	r.mu.Unlock()
}

func (r *recorder) OnFailure(body string, err error) {
	r.mu.Lock()
	r.failures[body] = err
	r.mu.Unlock()
}

type counter struct{ n int }

func (c *counter) Name() string         { return "count" }
func (c *counter) Observe(orbit.Sample) { c.n++ }
func (c *counter) Value() float64       { return float64(c.n) }
func (c *counter) Reset()               { c.n = 0 }

var _ = Describe("System", func() {
	var sys *orbit.System

	BeforeEach(func() {
		sys = innerSystem()
	})

	Describe("registry", func() {
		It("keeps the authoritative count and sorted names", func() {
			Expect(sys.Count()).To(Equal(3))
			Expect(sys.Names()).To(Equal([]string{"Earth", "Mars", "Mercury"}))
		})

		It("rejects duplicate names", func() {
			err := sys.Add(mustBody("Mars", 1e8, 0.1, 0, 1e20))
			Expect(errors.Is(err, orbit.ErrDuplicateBody)).To(BeTrue())
			Expect(sys.Count()).To(Equal(3))
		})

		It("resolves moons by path", func() {
			moon, ok := sys.Body("Earth/Moon")
			Expect(ok).To(BeTrue())
			Expect(moon.Name()).To(Equal("Moon"))
			Expect(moon.Parent().Name()).To(Equal("Earth"))

			_, ok = sys.Body("Earth/Phobos")
			Expect(ok).To(BeFalse())
			_, ok = sys.Body("Pluto")
			Expect(ok).To(BeFalse())
		})

		It("walks planets followed by their moons", func() {
			var paths []string
			Expect(sys.Walk(func(b *orbit.Body) error {
				paths = append(paths, b.Path())
				return nil
			})).To(Succeed())
			Expect(paths).To(Equal([]string{"Earth", "Earth/Moon", "Mars", "Mercury"}))
		})

		It("refuses to register a satellite at the top level", func() {
			moon, _ := sys.Body("Earth/Moon")
			Expect(errors.Is(sys.Add(moon), orbit.ErrInvalidElements)).To(BeTrue())
		})
	})

	Describe("InitializeAll", func() {
		It("initializes every body with one periapsis sample", func() {
			Expect(sys.InitializeAll()).To(Succeed())
			for _, b := range sys.Bodies() {
				Expect(b.Initialized()).To(BeTrue(), b.Path())
				Expect(b.Len()).To(Equal(1), b.Path())
			}
		})

		It("references moons to their parent and planets to the central mass", func() {
			Expect(sys.InitializeAll()).To(Succeed())
			moon, _ := sys.Body("Earth/Moon")
			earth, _ := sys.Body("Earth")

			moonMu := orbit.GravitationalConstant * (7.342e22 + 5.97e24)
			earthMu := orbit.GravitationalConstant * (5.97e24 + orbit.CentralMass)
			Expect(moon.Derived().Mu).To(BeNumerically("~", moonMu, moonMu*1e-15))
			Expect(earth.Derived().Mu).To(BeNumerically("~", earthMu, earthMu*1e-15))
		})
	})

	Describe("PropagateOrbits", func() {
		It("adds exactly one thousand samples per orbit", func() {
			Expect(sys.InitializeAll()).To(Succeed())
			mars, _ := sys.Body("Mars")

			Expect(sys.PropagateOrbits(mars, 2)).To(Succeed())
			Expect(mars.Len()).To(Equal(1 + 2*orbit.SamplesPerOrbit))
			Expect(mars.Times[mars.Len()-1]).To(BeNumerically("~", 2*mars.Derived().Period, 1e-6*mars.Derived().Period))
		})

		It("returns to periapsis after a whole orbit", func() {
			Expect(sys.InitializeAll()).To(Succeed())
			mercury, _ := sys.Body("Mercury")
			Expect(sys.PropagateOrbits(mercury, 1)).To(Succeed())

			first, last := mercury.Positions[0], mercury.Positions[mercury.Len()-1]
			Expect(last.Sub(first).Norm()).To(BeNumerically("<", 1e-6*first.Norm()))
		})

		It("fails on a body that was never initialized", func() {
			mars, _ := sys.Body("Mars")
			err := sys.PropagateOrbits(mars, 1)
			Expect(errors.Is(err, orbit.ErrNotInitialized)).To(BeTrue())
		})
	})

	Describe("Run", func() {
		It("propagates every body and feeds observers and metrics", func() {
			Expect(sys.InitializeAll()).To(Succeed())
			rec := newRecorder()

			res, err := sys.Run(context.Background(), orbit.RunOptions{
				Orbits:    1,
				Workers:   4,
				Observers: []orbit.Observer{rec},
				Metrics: func(*orbit.Body) []orbit.Metric {
					return []orbit.Metric{&counter{}}
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Bodies).To(HaveLen(4))
			for path, br := range res.Bodies {
				Expect(br.Samples).To(Equal(1+orbit.SamplesPerOrbit), path)
				Expect(br.Metrics).To(HaveKeyWithValue("count", float64(1+orbit.SamplesPerOrbit)), path)
				Expect(rec.samples[path]).To(Equal(orbit.SamplesPerOrbit), path)
			}
			Expect(rec.failures).To(BeEmpty())
		})

		It("gives the same tracks in parallel as sequentially", func() {
			seq := innerSystem()
			Expect(seq.InitializeAll()).To(Succeed())
			Expect(sys.InitializeAll()).To(Succeed())

			_, err := seq.Run(context.Background(), orbit.RunOptions{Orbits: 1, Workers: 1})
			Expect(err).NotTo(HaveOccurred())
			_, err = sys.Run(context.Background(), orbit.RunOptions{Orbits: 1, Workers: 8})
			Expect(err).NotTo(HaveOccurred())

			for _, b := range sys.Bodies() {
				other, ok := seq.Body(b.Path())
				Expect(ok).To(BeTrue())
				Expect(b.Positions).To(Equal(other.Positions), b.Path())
				Expect(b.Velocities).To(Equal(other.Velocities), b.Path())
			}
		})

		It("reports bodies that cannot be propagated", func() {
			rec := newRecorder()
			_, err := sys.Run(context.Background(), orbit.RunOptions{Observers: []orbit.Observer{rec}})
			Expect(errors.Is(err, orbit.ErrNotInitialized)).To(BeTrue())
			Expect(rec.failures).NotTo(BeEmpty())
		})

		It("stops when the context is cancelled", func() {
			Expect(sys.InitializeAll()).To(Succeed())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := sys.Run(ctx, orbit.RunOptions{Orbits: 3})
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
