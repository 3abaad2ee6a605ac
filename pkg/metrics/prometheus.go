package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	priceFetches *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	alertsFired  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		priceFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfmanager_price_fetches_total",
				Help: "Total number of price fetch attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfmanager_cache_lookups_total",
				Help: "Total number of price cache lookups by outcome",
			},
			[]string{"kind", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfmanager_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "etfmanager_last_price",
				Help: "Last fetched price for a ticker",
			},
			[]string{"ticker"},
		),
		alertsFired: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfmanager_alerts_fired_total",
				Help: "Total number of alerts triggered by type",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etfmanager_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPriceFetch records a price fetch attempt and its outcome.
func (r *Recorder) RecordPriceFetch(source, outcome string) {
	r.priceFetches.WithLabelValues(source, outcome).Inc()
}

// RecordCacheLookup records a cache lookup outcome ("hit" or "miss").
func (r *Recorder) RecordCacheLookup(kind, outcome string) {
	r.cacheLookups.WithLabelValues(kind, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last fetched price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordAlertFired records a triggered alert.
func (r *Recorder) RecordAlertFired(alertType string) {
	r.alertsFired.WithLabelValues(alertType).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
