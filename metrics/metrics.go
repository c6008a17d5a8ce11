// Package metrics exposes engine counters through Prometheus collectors.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kuriosity"

// Metrics groups the engine collectors.
type Metrics struct {
	completed     *prometheus.CounterVec
	deprioritized *prometheus.CounterVec
	failures      *prometheus.CounterVec
	factor        *prometheus.GaugeVec
}

// New creates the collectors and registers them with registerer.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	ret := &Metrics{
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiments_completed_total",
			Help:      "Number of experiments completed by crew members.",
		}, []string{"experiment"}),
		deprioritized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiments_deprioritized_total",
			Help:      "Number of trackers deprioritized after a crew mate completed the experiment.",
		}, []string{"experiment"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_failures_total",
			Help:      "Number of completions whose reports could not be stored.",
		}, []string{"reason"}),
		factor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "part_factor",
			Help:      "Current kuriosity factor applied by a part.",
		}, []string{"part"}),
	}
	if registerer == nil {
		return ret, nil
	}
	for _, collector := range []prometheus.Collector{ret.completed, ret.deprioritized, ret.failures, ret.factor} {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return ret, nil
}

// ObserveCompletion counts a completed experiment.
func (m *Metrics) ObserveCompletion(experimentID string) {
	if m == nil {
		return
	}
	m.completed.WithLabelValues(experimentID).Inc()
}

// ObserveDeprioritized counts a deprioritized tracker.
func (m *Metrics) ObserveDeprioritized(experimentID string) {
	if m == nil {
		return
	}
	m.deprioritized.WithLabelValues(experimentID).Inc()
}

// ObserveFailure counts a failed completion.
func (m *Metrics) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

// SetFactor records the current part factor.
func (m *Metrics) SetFactor(partID string, factor float64) {
	if m == nil {
		return
	}
	m.factor.WithLabelValues(partID).Set(factor)
}

// ForgetPart drops the factor series of a shut down part.
func (m *Metrics) ForgetPart(partID string) {
	if m == nil {
		return
	}
	m.factor.DeleteLabelValues(partID)
}
