// Package telemetry exports propagation progress as Prometheus metrics.
package telemetry

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Collector implements orbit.Observer. It is safe for concurrent use.
type Collector struct {
	registry   *prometheus.Registry
	samples    *prometheus.CounterVec
	failures   *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	radius     *prometheus.GaugeVec
	speed      *prometheus.GaugeVec
}

// New creates a collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbsim_samples_total",
				Help: "Total number of propagated samples.",
			},
			[]string{"body"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbsim_failures_total",
				Help: "Total number of bodies whose propagation failed.",
			},
			[]string{"body", "reason"},
		),
		iterations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orbsim_kepler_iterations",
				Help:    "Newton iterations per Kepler solve.",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 20, 50, 100},
			},
			[]string{"body"},
		),
		radius: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbsim_radius_km",
				Help: "Distance from the reference body at the latest sample.",
			},
			[]string{"body"},
		),
		speed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbsim_speed_km_per_second",
				Help: "Speed relative to the reference body at the latest sample.",
			},
			[]string{"body"},
		),
	}
	c.registry.MustRegister(c.samples, c.failures, c.iterations, c.radius, c.speed)
	return c
}

func (c *Collector) OnSample(s orbit.Sample) {
	c.samples.WithLabelValues(s.Body).Inc()
	c.iterations.WithLabelValues(s.Body).Observe(float64(s.Iterations))
	c.radius.WithLabelValues(s.Body).Set(s.Position.Norm())
	c.speed.WithLabelValues(s.Body).Set(s.Velocity.Norm())
}

func (c *Collector) OnFailure(body string, err error) {
	c.failures.WithLabelValues(body, reason(err)).Inc()
}

func reason(err error) string {
	switch {
	case errors.Is(err, orbit.ErrDivergence):
		return "divergence"
	case errors.Is(err, orbit.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, orbit.ErrInvalidElements):
		return "invalid_elements"
	default:
		return "other"
	}
}

// Registry exposes the collector's registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler returns the Prometheus metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
