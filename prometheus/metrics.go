package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Auth error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "missing_token", "invalid_token", etc.
	)

	// Project/task operation counter
	ResourceOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_resource_operations_total",
			Help: "Total number of resource operations",
		},
		[]string{"resource", "operation"}, // operation can be "create", "get", "list", "update", "delete"
	)

	// Tenancy violation counter - reads rejected and writes blocked by the gate
	TenancyViolationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_tenancy_violations_total",
			Help: "Total number of tenancy violations rejected by the enforcement gate",
		},
		[]string{"resource", "operation"},
	)

	// Tenancy warning counter - soft-mode warnings that did not block
	TenancyWarningCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_tenancy_warnings_total",
			Help: "Total number of non-blocking tenancy warnings",
		},
		[]string{"warn_type"},
	)

	// Requests arriving without tenant context on tenant-scoped routes
	TenantContextMissingCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "project_tenant_context_missing_total",
			Help: "Total number of requests missing tenant context on tenant-scoped routes",
		},
	)

	// Failures forwarding warnings to the health tracker
	WarningForwardErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "project_tenancy_forward_errors_total",
			Help: "Total number of failed warning forwards to the health tracker",
		},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "project_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "project_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "project_info",
			Help: "Information about the project service",
		},
		[]string{"version", "tenancy_mode"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(ResourceOperationCounter)
	prometheus.MustRegister(TenancyViolationCounter)
	prometheus.MustRegister(TenancyWarningCounter)
	prometheus.MustRegister(TenantContextMissingCounter)
	prometheus.MustRegister(WarningForwardErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)
}

// SetServiceInfo records the service version and resolved tenancy mode
func SetServiceInfo(version, tenancyMode string) {
	InfoGauge.With(prometheus.Labels{"version": version, "tenancy_mode": tenancyMode}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordResourceOperation records a resource operation
func RecordResourceOperation(resource, operation string) {
	ResourceOperationCounter.With(prometheus.Labels{
		"resource":  resource,
		"operation": operation,
	}).Inc()
}

// RecordTenancyViolation records a read or write rejected by the gate
func RecordTenancyViolation(resource, operation string) {
	TenancyViolationCounter.With(prometheus.Labels{
		"resource":  resource,
		"operation": operation,
	}).Inc()
}

// RecordTenancyWarning records a non-blocking tenancy warning
func RecordTenancyWarning(warnType string) {
	TenancyWarningCounter.With(prometheus.Labels{"warn_type": warnType}).Inc()
}

// RecordWarningForwardError records a failed health-tracker forward
func RecordWarningForwardError() {
	WarningForwardErrorCounter.Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
