package diagnostic

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "diagnostic"

// Metrics holds the pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	attempts    *prometheus.CounterVec
	unavailable *prometheus.CounterVec
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	available   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "agent_attempts_total",
			Help:      "Generation attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		unavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "agent_unavailable_total",
			Help:      "Invocations that exhausted both attempts.",
		}, []string{"role"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "job_transitions_total",
			Help:      "Job status writes by target status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end generation time by outcome.",
			Buckets:   []float64{1, 5, 10, 20, 30, 45, 60, 90, 120, 180},
		}, []string{"outcome"}),
		available: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "specialists_available",
			Help:      "Specialist reports available to each synthesis.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.attempts, m.unavailable, m.transitions, m.duration, m.available)
	}
	return m
}

func (m *Metrics) attempt(role RoleID, outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(string(role), outcome).Inc()
}

func (m *Metrics) giveUp(role RoleID) {
	if m == nil {
		return
	}
	m.unavailable.WithLabelValues(string(role)).Inc()
}

func (m *Metrics) transition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) pipeline(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) specialists(n int) {
	if m == nil {
		return
	}
	m.available.Observe(float64(n))
}
