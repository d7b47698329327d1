package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "space_weather"

// Metrics holds the Prometheus counters, histograms, and gauges for the monitor.
type Metrics struct {
	PollCycles     prometheus.Counter
	PollDuration   prometheus.Histogram
	MonitorRunning prometheus.Gauge

	// Feed metrics.
	FeedFetches     *prometheus.CounterVec   // labels: feed, outcome={success,error,skipped}
	FeedAPIDuration *prometheus.HistogramVec // labels: feed
	FeedValue       *prometheus.GaugeVec     // labels: feed
	FeedBreakerOpen *prometheus.GaugeVec     // labels: feed

	// Alerting metrics.
	SeverityRank  *prometheus.GaugeVec   // labels: category
	Notifications *prometheus.CounterVec // labels: kind={alert,clear,summary}, outcome={sent,error}

	// Kafka sink metrics.
	ReadingsPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all monitor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PollCycles,
		m.PollDuration,
		m.MonitorRunning,
		m.FeedFetches,
		m.FeedAPIDuration,
		m.FeedValue,
		m.FeedBreakerOpen,
		m.SeverityRank,
		m.Notifications,
		m.ReadingsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Total completed poll cycles.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete fetch-classify-notify cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitor_running",
			Help:      "1 when the poll loop is active, 0 when shut down.",
		}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "SWPC feed fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_api_duration_seconds",
			Help:      "SWPC HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"feed"}),
		FeedValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_value",
			Help:      "Latest value read from each feed, in the feed's native unit.",
		}, []string{"feed"}),
		FeedBreakerOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_breaker_open",
			Help:      "1 while a feed's circuit breaker is open, 0 otherwise.",
		}, []string{"feed"}),
		SeverityRank: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "severity_rank",
			Help:      "Position of the current severity on its scale (0 = below all thresholds).",
		}, []string{"category"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Webhook notifications by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ReadingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_published_total",
			Help:      "Readings written to the Kafka sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
	}
}
