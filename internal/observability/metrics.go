package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for imports and forecasts.
type Metrics struct {
	RecordsImported prometheus.Counter
	RowsRejected    *prometheus.CounterVec // labels: reason={missing_date,invalid_date,...}

	ForecastRequests  *prometheus.CounterVec // labels: outcome={ok,no_model,no_data,load_error}
	ModelLoadDuration prometheus.Histogram
	ModelCache        *prometheus.CounterVec // labels: result={hit,miss}

	ImportEvents *prometheus.CounterVec // labels: outcome={published,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsImported,
		m.RowsRejected,
		m.ForecastRequests,
		m.ModelLoadDuration,
		m.ModelCache,
		m.ImportEvents,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them so each test
// can build its own set.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_insights",
			Name:      "emission_records_imported_total",
			Help:      "Total emission records stored from CSV uploads.",
		}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_insights",
			Name:      "emission_rows_rejected_total",
			Help:      "CSV rows skipped during import by rejection reason.",
		}, []string{"reason"}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_insights",
			Name:      "forecast_requests_total",
			Help:      "Forecast requests by outcome.",
		}, []string{"outcome"}),
		ModelLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carbon_insights",
			Name:      "model_load_duration_seconds",
			Help:      "Time spent fetching and decoding a model artifact.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ModelCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_insights",
			Name:      "model_cache_total",
			Help:      "Model cache lookups by result.",
		}, []string{"result"}),
		ImportEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_insights",
			Name:      "import_events_total",
			Help:      "Import notifications sent to the message broker by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveModelCache records a model cache lookup.
func (m *Metrics) ObserveModelCache(hit bool) {
	if hit {
		m.ModelCache.WithLabelValues("hit").Inc()
		return
	}
	m.ModelCache.WithLabelValues("miss").Inc()
}
