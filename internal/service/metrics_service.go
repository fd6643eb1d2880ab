package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer
// and the authorization state machine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	verifyOutcomes  *prometheus.CounterVec
	disclosures     prometheus.Counter
	storageFailures prometheus.Counter
	rateLimited     prometheus.Counter
}

// NewMetricsService registers the collectors on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	verifyOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "verify_outcomes_total",
		Help: "Verification attempts by outcome kind",
	}, []string{"kind"})

	disclosures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "disclosures_total",
		Help: "Documents revealed through the disclosure gateway",
	})

	storageFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storage_fetch_failures_total",
		Help: "Failed fetches from the backing object store",
	})

	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "verify_rate_limited_total",
		Help: "Verification requests rejected by the rate limiter",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, verifyOutcomes, disclosures, storageFailures, rateLimited, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		verifyOutcomes:  verifyOutcomes,
		disclosures:     disclosures,
		storageFailures: storageFailures,
		rateLimited:     rateLimited,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveVerification counts one verification outcome by kind.
func (m *MetricsService) ObserveVerification(kind string) {
	if m == nil {
		return
	}
	m.verifyOutcomes.WithLabelValues(kind).Inc()
}

// ObserveDisclosure counts one successful document render.
func (m *MetricsService) ObserveDisclosure() {
	if m == nil {
		return
	}
	m.disclosures.Inc()
}

// ObserveStorageFailure counts one failed object-store fetch.
func (m *MetricsService) ObserveStorageFailure() {
	if m == nil {
		return
	}
	m.storageFailures.Inc()
}

// ObserveRateLimited counts one throttled verification request.
func (m *MetricsService) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
