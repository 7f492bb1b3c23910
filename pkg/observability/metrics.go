package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClientMetrics records outbound accounting API calls.
// A nil *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// NewClientMetrics registers the client metrics on reg
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	factory := promauto.With(reg)

	return &ClientMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ksiegowosc_requests_total",
				Help: "Total number of accounting API requests by endpoint and result code",
			},
			[]string{"endpoint", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "ksiegowosc_request_duration_seconds",
				Help: "Duration of accounting API requests in seconds",
				// Buckets: 50ms to 30s
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		requestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ksiegowosc_requests_in_flight",
				Help: "Number of accounting API requests currently awaiting a response",
			},
		),
	}
}

// Start marks a request as in flight. The returned func completes it with
// the result code ("ok" or the error code) and must be called exactly once.
func (m *ClientMetrics) Start(endpoint string) func(code string) {
	if m == nil {
		return func(string) {}
	}

	start := time.Now()
	m.requestsInFlight.Inc()

	return func(code string) {
		m.requestsInFlight.Dec()
		m.requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(endpoint, code).Inc()
	}
}
