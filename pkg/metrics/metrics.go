// Package metrics exposes Prometheus collectors for parsing, rendering,
// snippet storage and the HTTP server.
//
// Collectors register with the default registry at init; [Handler] serves
// them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
)

// ResultOK labels a successful parse.
const ResultOK = "ok"

var (
	// parseTotal counts parses by result: "ok" or the error code.
	parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphtext_parse_total",
		Help: "Total graph text parses by result",
	}, []string{"result"})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphtext_render_duration_seconds",
		Help:    "Artifact render duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"format", "cache"})

	snippetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphtext_snippet_operations_total",
		Help: "Snippet store operations by operation and result",
	}, []string{"operation", "result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphtext_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphtext_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveParse records the outcome of one parse.
func ObserveParse(err error) {
	parseTotal.WithLabelValues(ParseResult(err)).Inc()
}

// ParseResult is the label ObserveParse uses for err.
func ParseResult(err error) string {
	if err == nil {
		return ResultOK
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return string(apperrors.ErrCodeInternal)
}

// ObserveRender records one artifact render or cache lookup.
func ObserveRender(format string, cacheHit bool, d time.Duration) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	renderDuration.WithLabelValues(format, label).Observe(d.Seconds())
}

// ObserveSnippet records a snippet store operation.
func ObserveSnippet(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ParseResult(err)
	}
	snippetsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveHTTP records a finished HTTP request. route is the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
