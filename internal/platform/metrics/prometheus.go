package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager owns the service's Prometheus registry and collectors.
type MetricsManager struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	APIErrorsTotal      *prometheus.CounterVec

	ReviewsCreatedTotal     prometheus.Counter
	ReviewUpdatesTotal      prometheus.Counter
	ReviewDeletesTotal      prometheus.Counter
	RatingRecomputesTotal   *prometheus.CounterVec
	CacheRequestsTotal      *prometheus.CounterVec
	EventPublishErrorsTotal *prometheus.CounterVec
}

// NewMetricsManager registers all collectors on a fresh registry, so several
// managers can coexist in one process (tests build one per case).
func NewMetricsManager(serviceName string) *MetricsManager {
	ns := strings.NewReplacer("-", "_", ".", "_").Replace(serviceName)
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "api_errors_total",
			Help:      "API errors by error kind.",
		}, []string{"kind"}),
		ReviewsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "reviews_created_total",
			Help:      "Total number of reviews created.",
		}),
		ReviewUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "review_updates_total",
			Help:      "Total number of reviews updated.",
		}),
		ReviewDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "review_deletes_total",
			Help:      "Total number of reviews deleted.",
		}),
		RatingRecomputesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "rating_recomputes_total",
			Help:      "Book rating recomputations by result.",
		}, []string{"result"}),
		CacheRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by cache name and result (hit, miss, error).",
		}, []string{"cache", "result"}),
		EventPublishErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "event_publish_errors_total",
			Help:      "Domain events that could not be published, by subject.",
		}, []string{"subject"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.APIErrorsTotal,
		m.ReviewsCreatedTotal,
		m.ReviewUpdatesTotal,
		m.ReviewDeletesTotal,
		m.RatingRecomputesTotal,
		m.CacheRequestsTotal,
		m.EventPublishErrorsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// NewServer returns the /metrics server listening on port. The caller starts
// and shuts it down.
func (m *MetricsManager) NewServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
