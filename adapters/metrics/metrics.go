// Package metrics provides Prometheus metrics collection for attrkit.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/attrkit/ports"
)

// Collector holds all Prometheus metrics for the engine.
type Collector struct {
	DefaultsResolved  *prometheus.CounterVec
	GeneratorFailures *prometheus.CounterVec
	ResourcesCompiled *prometheus.CounterVec
}

// New creates a new metrics collector registered on the default registerer.
func New() *Collector {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a collector registered on reg. Tests pass a private
// registry to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		DefaultsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "attrkit",
				Name:      "defaults_resolved_total",
				Help:      "Total number of default values resolved",
			},
			[]string{"resource", "shared"},
		),
		GeneratorFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "attrkit",
				Name:      "generator_failures_total",
				Help:      "Total number of default generator errors during writes",
			},
			[]string{"resource", "attribute"},
		),
		ResourcesCompiled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "attrkit",
				Name:      "resources_compiled_total",
				Help:      "Total number of resource definition compile attempts",
			},
			[]string{"resource", "result"},
		),
	}
}

// ResolvedDefault counts one resolved default value.
func (c *Collector) ResolvedDefault(resource string, shared bool) {
	label := "false"
	if shared {
		label = "true"
	}
	c.DefaultsResolved.WithLabelValues(resource, label).Inc()
}

// GeneratorFailure counts a default generator error.
func (c *Collector) GeneratorFailure(resource, attribute string) {
	c.GeneratorFailures.WithLabelValues(resource, attribute).Inc()
}

// ResourceCompiled counts one compile attempt.
func (c *Collector) ResourceCompiled(resource string, ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	c.ResourcesCompiled.WithLabelValues(resource, result).Inc()
}

var _ ports.Metrics = (*Collector)(nil)

// Noop discards all metrics. Useful in tests and the CLI.
type Noop struct{}

func (Noop) ResolvedDefault(string, bool)    {}
func (Noop) GeneratorFailure(string, string) {}
func (Noop) ResourceCompiled(string, bool)   {}

var _ ports.Metrics = Noop{}
