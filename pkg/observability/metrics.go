package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by resolution hooks.
type Metrics struct {
	ModulesLoaded      *prometheus.CounterVec
	Invocations        *prometheus.CounterVec
	InvocationDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ModulesLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graft_modules_loaded_total",
				Help: "Total number of module references loaded",
			},
			[]string{"structured"},
		),
		Invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graft_invocations_total",
				Help: "Total number of function module invocations",
			},
			[]string{"module", "status"},
		),
		InvocationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graft_invocation_duration_seconds",
				Help:    "Duration of function module invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"module"},
		),
	}

	for _, c := range []prometheus.Collector{m.ModulesLoaded, m.Invocations, m.InvocationDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModuleLoad: func(_ context.Context, e *domain.ModuleEvent) {
			m.ModulesLoaded.WithLabelValues(strconv.FormatBool(e.Structured)).Inc()
		},
		OnInvokeReturn: func(_ context.Context, e *domain.InvokeEvent) {
			status := "success"
			if e.IsError {
				status = "error"
			}
			m.Invocations.WithLabelValues(e.Name, status).Inc()
			m.InvocationDuration.WithLabelValues(e.Name).Observe(e.Duration.Seconds())
		},
	}
}
