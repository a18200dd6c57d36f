// Package metrics provides an optional prometheus collector for loaders.
// Loaders accept a *Collector via their options and record nothing when none
// is configured, keeping the default dependency-free at runtime.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector aggregates loader metrics. One collector may be shared by any
// number of loaders; series are partitioned by loader identifier.
type Collector struct {
	activationsTotal   *prometheus.CounterVec
	activationDuration *prometheus.HistogramVec
	registrationsTotal *prometheus.CounterVec
	rollbacksTotal     *prometheus.CounterVec
	resourceQueries    *prometheus.CounterVec
	registryEntries    *prometheus.GaugeVec
}

// NewCollector creates a collector registering its metrics with reg. A nil
// registerer falls back to the prometheus default registry.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{}

	c.activationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activations_total",
			Help:      "Total number of artifact activations",
		},
		[]string{"loader", "result"},
	)

	c.activationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "activation_duration_seconds",
			Help:      "Artifact activation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"loader"},
	)

	c.registrationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of batch registrations",
		},
		[]string{"loader", "result"},
	)

	c.rollbacksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollbacks_total",
			Help:      "Total number of staged entries rolled back after registration",
		},
		[]string{"loader", "action"},
	)

	c.resourceQueries = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_queries_total",
			Help:      "Total number of resource-by-name queries",
		},
		[]string{"loader", "outcome"},
	)

	c.registryEntries = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_entries",
			Help:      "Number of payloads currently held in the registry",
		},
		[]string{"loader"},
	)

	return c
}

// ObserveActivation records one activation attempt and its latency.
func (c *Collector) ObserveActivation(loaderID, result string, dur time.Duration) {
	c.activationsTotal.WithLabelValues(loaderID, result).Inc()
	c.activationDuration.WithLabelValues(loaderID).Observe(dur.Seconds())
}

// ObserveRegistration records the outcome of one batch registration.
func (c *Collector) ObserveRegistration(loaderID, result string) {
	c.registrationsTotal.WithLabelValues(loaderID, result).Inc()
}

// ObserveRollback records one cleanup action taken for a staged entry;
// action is "restored" for a concurrent writer's value put back or
// "released" for a dropped transient entry.
func (c *Collector) ObserveRollback(loaderID, action string) {
	c.rollbacksTotal.WithLabelValues(loaderID, action).Inc()
}

// ObserveResourceQuery records one resource lookup; outcome is one of
// "hit", "miss" or "shadowed".
func (c *Collector) ObserveResourceQuery(loaderID, outcome string) {
	c.resourceQueries.WithLabelValues(loaderID, outcome).Inc()
}

// SetRegistryEntries records the current registry size for a loader.
func (c *Collector) SetRegistryEntries(loaderID string, n int) {
	c.registryEntries.WithLabelValues(loaderID).Set(float64(n))
}
