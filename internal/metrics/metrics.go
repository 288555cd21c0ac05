package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the authorization core's counters on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	denials          *prometheus.CounterVec
	tenantMismatches prometheus.Counter
	activityFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "access_denials_total",
			Help:      "Requests denied by the authorization core, by reason.",
		}, []string{"reason"}),
		tenantMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "tenant_mismatches_total",
			Help:      "Requests naming a tenant other than the session tenant.",
		}),
		activityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "activity_record_failures_total",
			Help:      "Activity trail rows that could not be appended.",
		}),
	}
	m.registry.MustRegister(m.denials, m.tenantMismatches, m.activityFailures)
	return m
}

func (m *Metrics) Denied(reason string) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(reason).Inc()
}

func (m *Metrics) TenantMismatch() {
	if m == nil {
		return
	}
	m.tenantMismatches.Inc()
}

func (m *Metrics) ActivityFailure() {
	if m == nil {
		return
	}
	m.activityFailures.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
