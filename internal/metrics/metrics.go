package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExchangeMetrics holds the subsystem's prometheus collectors.
type ExchangeMetrics struct {
	ConversionsTotal      prometheus.CounterVec
	ProviderFailuresTotal prometheus.CounterVec
	CacheWriteErrorsTotal prometheus.Counter
	UpstreamFetchDuration prometheus.Histogram
}

func NewExchangeMetrics() *ExchangeMetrics {
	return &ExchangeMetrics{
		ConversionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_conversions_total",
				Help: "Conversions served, labelled by rate source tier",
			},
			[]string{"tier"},
		),

		ProviderFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_provider_failures_total",
				Help: "Upstream provider calls that failed, by provider",
			},
			[]string{"provider"},
		),

		CacheWriteErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "exchange_cache_write_errors_total",
				Help: "Snapshot cache writes that failed (swallowed)",
			},
		),

		UpstreamFetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exchange_upstream_fetch_duration_seconds",
				Help:    "Duration of upstream rate fetches in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
	}
}

// RecordConversion counts one served conversion by tier.
func (m *ExchangeMetrics) RecordConversion(tier string) {
	m.ConversionsTotal.WithLabelValues(tier).Inc()
}

// RecordProviderFailure counts one skipped provider.
func (m *ExchangeMetrics) RecordProviderFailure(provider string) {
	m.ProviderFailuresTotal.WithLabelValues(provider).Inc()
}

// RecordCacheWriteError counts one swallowed snapshot write failure.
func (m *ExchangeMetrics) RecordCacheWriteError() {
	m.CacheWriteErrorsTotal.Inc()
}

// RecordFetchDuration records one upstream fetch duration.
func (m *ExchangeMetrics) RecordFetchDuration(seconds float64) {
	m.UpstreamFetchDuration.Observe(seconds)
}
