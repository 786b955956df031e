package driver

import (
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	loadCircular    = "circular"
	loadNonCircular = "noncircular"
)

// Metrics counts the work done by a Driver across runs.
type Metrics struct {
	ModulesElaborated  prometheus.Counter
	CircularIterations prometheus.Counter
	Loads              *prometheus.CounterVec
	Diagnostics        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		ModulesElaborated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tstype",
			Name:      "modules_elaborated_total",
			Help:      "Number of module elaborations, repeated rounds of circular groups included.",
		}),
		CircularIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tstype",
			Name:      "circular_iterations_total",
			Help:      "Number of rounds run for circular groups.",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tstype",
			Name:      "loads_total",
			Help:      "Number of dependency loads by kind.",
		}, []string{"kind"}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tstype",
			Name:      "diagnostics_total",
			Help:      "Number of diagnostics reported by code.",
		}, []string{"code"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ModulesElaborated,
		m.CircularIterations,
		m.Loads,
		m.Diagnostics,
	}
}

// Register registers the metrics with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) countDiagnostics(diags []*diag.Diagnostic) {
	for _, d := range diags {
		m.Diagnostics.WithLabelValues(d.Code.String()).Inc()
	}
}
