package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_api"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// HTTP metrics.
	HTTPRequests        *prometheus.CounterVec   // labels: method, route, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: method, route

	// Forecast generation metrics.
	ForecastsGenerated prometheus.Counter
	TemperatureC       prometheus.Histogram

	// Forecast feed metrics.
	PublishQueued   prometheus.Counter
	PublishDropped  prometheus.Counter
	PublishErrors   prometheus.Counter
	EventsPublished prometheus.Counter
	PublishDuration prometheus.Histogram
	PublishQueueLen prometheus.Gauge
	PublisherActive prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.ForecastsGenerated,
		m.TemperatureC,
		m.PublishQueued,
		m.PublishDropped,
		m.PublishErrors,
		m.EventsPublished,
		m.PublishDuration,
		m.PublishQueueLen,
		m.PublisherActive,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, matched route, and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and matched route.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route"}),
		ForecastsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_generated_total",
			Help:      "Total forecast records generated.",
		}),
		TemperatureC: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_temperature_celsius",
			Help:      "Distribution of generated Celsius temperatures.",
			Buckets:   prometheus.LinearBuckets(-20, 10, 8),
		}),
		PublishQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_queued_total",
			Help:      "Forecast batches accepted into the publish queue.",
		}),
		PublishDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_dropped_total",
			Help:      "Forecast batches dropped because the publish queue was full or closed.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to write a batch to the forecast feed.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Forecast batches written to the forecast feed.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_duration_seconds",
			Help:      "Duration of a successful feed write.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		PublishQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publish_queue_length",
			Help:      "Forecast batches waiting in the publish queue.",
		}),
		PublisherActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_active",
			Help:      "1 when the forecast feed publisher is running, 0 otherwise.",
		}),
	}
}
