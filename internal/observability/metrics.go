package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment console.
type Metrics struct {
	// Enrichment metrics.
	EnrichmentLookups     *prometheus.CounterVec // labels: kind={address,elevation}, outcome={success,error,fallback}
	StaleResultsDiscarded *prometheus.CounterVec // labels: kind={address,elevation,risk}
	DebounceCancellations prometheus.Counter
	GeocodeCache          *prometheus.CounterVec // labels: result={hit,miss}

	// Risk orchestration metrics.
	RiskCalculations prometheus.Counter
	RiskErrors       prometheus.Counter
	GateFailures     prometheus.Counter

	// Audit stream metrics.
	AuditPublished     prometheus.Counter
	AuditPublishErrors prometheus.Counter

	// Outbound provider latency.
	ProviderDuration *prometheus.HistogramVec // labels: provider={geocode,elevation,risk_api}
}

// NewMetrics creates and registers all console metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EnrichmentLookups,
		m.StaleResultsDiscarded,
		m.DebounceCancellations,
		m.GeocodeCache,
		m.RiskCalculations,
		m.RiskErrors,
		m.GateFailures,
		m.AuditPublished,
		m.AuditPublishErrors,
		m.ProviderDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EnrichmentLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "enrichment_lookups_total",
			Help:      "Location enrichment lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		StaleResultsDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "stale_results_discarded_total",
			Help:      "Responses dropped because their request context was superseded.",
		}, []string{"kind"}),
		DebounceCancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "debounce_cancellations_total",
			Help:      "Pending enrichment timers cancelled by a newer location.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocode cache lookups by result.",
		}, []string{"result"}),
		RiskCalculations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "risk_calculations_total",
			Help:      "Risk calculation requests completed successfully.",
		}),
		RiskErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "risk_errors_total",
			Help:      "Risk calculation requests that failed.",
		}),
		GateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "gate_failures_total",
			Help:      "Successful calculations whose confidence gate did not pass.",
		}),
		AuditPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "audit_published_total",
			Help:      "Assessment records published to the audit stream.",
		}),
		AuditPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "georisk_console",
			Name:      "audit_publish_errors_total",
			Help:      "Assessment records that could not be published.",
		}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "georisk_console",
			Name:      "provider_duration_seconds",
			Help:      "Outbound provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}
}
