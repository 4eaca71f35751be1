package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconcile outcomes.
const (
	OutcomeApplied           = "applied"
	OutcomeNoop              = "noop"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomePetNotFound       = "pet_not_found"
	OutcomeError             = "error"
)

// Metrics records HTTP traffic and inventory reconciliation outcomes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	reconcile    *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg returns a no-op Metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reconcile := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adoption_reconcile_total",
		Help: "Inventory reconciliation attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(httpRequests, httpDuration, reconcile)
	return &Metrics{
		httpRequests: httpRequests,
		httpDuration: httpDuration,
		reconcile:    reconcile,
	}
}

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	route = normalizeRoute(route)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncReconcile counts one reconciliation outcome.
func (m *Metrics) IncReconcile(outcome string) {
	if m == nil || m.reconcile == nil {
		return
	}
	m.reconcile.WithLabelValues(outcome).Inc()
}

// Middleware observes every request using the matched route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// Handler serves the exposition format for g.
func Handler(g prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

func normalizeRoute(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}
