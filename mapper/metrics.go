package mapper

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "negspace"

// Metrics counts mapper activity. Counters are write-only from the mapper's
// point of view and never influence a result.
type Metrics struct {
	mappings    prometheus.Counter
	activations *prometheus.CounterVec
	absences    *prometheus.CounterVec
	violations  prometheus.Counter
}

// NewMetrics creates the mapper counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		mappings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mappings_total",
			Help:      "Statements mapped",
		}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "domain_activations_total",
			Help:      "Domains activated by a statement",
		}, []string{"domain"}),
		absences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "absences_total",
			Help:      "Absences reported, by domain and type",
		}, []string{"domain", "type"}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kernel_violations_total",
			Help:      "Results that failed the kernel compliance check",
		}),
	}

	for _, c := range []prometheus.Collector{m.mappings, m.activations, m.absences, m.violations} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register mapper metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(signals []Signal, result *MappingResult) {
	if m == nil {
		return
	}
	m.mappings.Inc()
	for _, s := range signals {
		m.activations.WithLabelValues(s.Domain).Inc()
	}
	for _, a := range result.Absences {
		m.absences.WithLabelValues(a.Domain, string(a.Type)).Inc()
	}
	if !result.KernelCompliant {
		m.violations.Inc()
	}
}
