package service

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the tool server.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	toolRequests    *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	providerCalls   *prometheus.CounterVec
	authRejections  prometheus.Counter
	limiterFailures prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
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

	toolRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tool_requests_total",
		Help: "Tool calls by tool name and response status",
	}, []string{"tool", "status"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_query_duration_seconds",
		Help:    "Duration of record store calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "op"})

	providerCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_calls_total",
		Help: "Messaging provider calls by operation and outcome",
	}, []string{"operation", "outcome"})

	authRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardian_auth_rejections_total",
		Help: "Guardian authentications rejected, including rate limited attempts",
	})

	limiterFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_limiter_failures_total",
		Help: "Attempt limiter backend errors (the limiter fails open)",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, toolRequests, storeDuration, providerCalls, authRejections, limiterFailures, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		toolRequests:    toolRequests,
		storeDuration:   storeDuration,
		providerCalls:   providerCalls,
		authRejections:  authRejections,
		limiterFailures: limiterFailures,
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveToolCall counts one answered tool call.
func (m *MetricsService) ObserveToolCall(tool string, status int) {
	if m == nil || tool == "" {
		return
	}
	m.toolRequests.WithLabelValues(tool, strconv.Itoa(status)).Inc()
}

// ObserveStoreCall records the latency of one record store call.
func (m *MetricsService) ObserveStoreCall(table, op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(table, op).Observe(duration.Seconds())
}

// ObserveProviderCall counts a provider call by outcome.
func (m *MetricsService) ObserveProviderCall(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.providerCalls.WithLabelValues(operation, outcome).Inc()
}

// IncAuthRejection counts a rejected guardian authentication.
func (m *MetricsService) IncAuthRejection() {
	if m == nil {
		return
	}
	m.authRejections.Inc()
}

// IncLimiterFailure counts an attempt limiter backend error.
func (m *MetricsService) IncLimiterFailure() {
	if m == nil {
		return
	}
	m.limiterFailures.Inc()
}
