package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inbox-service/pkg/config"
)

// Counter metrics
var (
	// Login attempts
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inbox_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Admin bootstrap attempts
	BootstrapCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inbox_bootstrap_total",
			Help: "Total number of admin bootstrap attempts",
		},
	)

	// Guest link redemptions by outcome
	GuestRedemptionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_guest_redemptions_total",
			Help: "Total number of guest link redemptions by outcome",
		},
		[]string{"outcome"}, // outcome can be "success", "expired", "exhausted", "forbidden", "not_found"
	)

	// Inbound email ingestion
	IngestCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inbox_ingest_total",
			Help: "Total number of ingested emails",
		},
	)

	// Email lookups by requester kind
	LookupCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_lookups_total",
			Help: "Total number of email lookups by requester kind",
		},
		[]string{"kind"}, // kind can be "admin", "tenant", "guest"
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "invalid_token", "not_admin" etc.
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inbox_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inbox_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inbox_info",
			Help: "Information about the inbox service",
		},
		[]string{"environment"},
	)
)

var registry *prometheus.Registry

// InitMetrics registers all metrics with a dedicated registry
func InitMetrics(cfg *config.Config) {
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		LoginCounter,
		BootstrapCounter,
		GuestRedemptionCounter,
		IngestCounter,
		LookupCounter,
		AuthErrorCounter,
		HTTPRequestCounter,
		RequestDuration,
		DBOperationDuration,
		InfoGauge,
	)
	InfoGauge.WithLabelValues(cfg.Server.Env).Set(1)
}

// GetPrometheusHandler returns the HTTP handler for the /metrics endpoint
func GetPrometheusHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RecordAuthError increments the auth error counter by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordGuestRedemption increments the redemption counter by outcome
func RecordGuestRedemption(outcome string) {
	GuestRedemptionCounter.WithLabelValues(outcome).Inc()
}

// TrackDBOperation returns a function that observes the elapsed time of a
// database operation when deferred: defer TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware records per-request counters and durations
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			endpoint := c.Path()
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
