package rolekitclient

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus instrumentation for API calls. Attach it to a
// client with WithMetrics; a nil Metrics is a no-op.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers client metrics on the given registerer.
// Pass prometheus.DefaultRegisterer to use the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rolekit_client",
			Name:      "requests_total",
			Help:      "API requests by method, endpoint and status.",
		}, []string{"method", "endpoint", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rolekit_client",
			Name:      "request_duration_seconds",
			Help:      "API request latency by method and endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// observe records one exchange. A status of zero means the request never
// produced a response.
func (m *Metrics) observe(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	endpoint := endpointLabel(path)
	st := "error"
	if status > 0 {
		st = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, endpoint, st).Inc()
	m.duration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// endpointLabel collapses a concrete path to its resource root so record
// IDs don't explode label cardinality: "/api/roles/42/permissions" becomes
// "/api/roles".
func endpointLabel(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[0] + "/" + parts[1]
	}
	return path
}
